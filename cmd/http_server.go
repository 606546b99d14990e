package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ryz3006/alignzo/internal"
	"github.com/ryz3006/alignzo/internal/auth"
	authPostgres "github.com/ryz3006/alignzo/internal/auth/postgres"
	"github.com/ryz3006/alignzo/internal/authz"
	authzPostgres "github.com/ryz3006/alignzo/internal/authz/postgres"
	"github.com/ryz3006/alignzo/internal/project"
	projectPostgres "github.com/ryz3006/alignzo/internal/project/postgres"
	"github.com/ryz3006/alignzo/internal/role"
	rolePostgres "github.com/ryz3006/alignzo/internal/role/postgres"
	"github.com/ryz3006/alignzo/internal/team"
	teamPostgres "github.com/ryz3006/alignzo/internal/team/postgres"
	"github.com/ryz3006/alignzo/internal/transport/rest"
	"github.com/ryz3006/alignzo/internal/transport/swagger"
	"github.com/ryz3006/alignzo/internal/user"
	userPostgres "github.com/ryz3006/alignzo/internal/user/postgres"
	"github.com/ryz3006/alignzo/internal/worklog"
	worklogPostgres "github.com/ryz3006/alignzo/internal/worklog/postgres"
	"github.com/ryz3006/alignzo/pkg/logger"
)

const openapiPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := swagger.ValidateSpec(context.Background(), openapiPath); err != nil {
		fmt.Fprintf(os.Stderr, "OpenAPI spec invalid: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger

	// Authorization engine
	authzRepo := authzPostgres.NewRepository(deps.GormDB)
	authzService := authz.NewService(authzRepo, lg)

	// Authentication
	tokenGen := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
		deps.Config.Security.AccessTokenDuration,
		deps.Config.Security.RefreshTokenDuration,
	)
	authRepo := authPostgres.NewRepository(deps.GormDB)
	authService := auth.NewService(authRepo, authzService, tokenGen, deps.Config.Security.BCryptCost)

	// Feature services
	userService := user.NewService(userPostgres.NewUserRepository(deps.GormDB), authzService, lg)
	teamService := team.NewService(teamPostgres.NewTeamRepository(deps.GormDB), authzService, lg)
	projectService := project.NewService(projectPostgres.NewProjectRepository(deps.GormDB), authzService, lg)
	worklogService := worklog.NewService(worklogPostgres.NewWorkLogRepository(deps.GormDB), authzService, lg)
	roleService := role.NewService(rolePostgres.NewRoleRepository(deps.GormDB), lg)

	handlers := rest.Handlers{
		Auth:    auth.NewHandler(authService),
		User:    user.NewHandler(userService),
		Team:    team.NewHandler(teamService),
		Project: project.NewHandler(projectService),
		WorkLog: worklog.NewHandler(worklogService),
		Role:    role.NewHandler(roleService),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.DB, authzService, handlers, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ORM: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers GORM over the already-open pgx connection pool so both
// query paths share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
}
