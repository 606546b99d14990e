package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/ryz3006/alignzo/internal/auth"
	"github.com/ryz3006/alignzo/internal/authz"
	"github.com/ryz3006/alignzo/internal/project"
	"github.com/ryz3006/alignzo/internal/role"
	"github.com/ryz3006/alignzo/internal/team"
	"github.com/ryz3006/alignzo/internal/transport/middleware"
	"github.com/ryz3006/alignzo/internal/transport/swagger"
	"github.com/ryz3006/alignzo/internal/user"
	"github.com/ryz3006/alignzo/internal/worklog"
)

// Handlers bundles the per-feature HTTP handlers the router mounts.
type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Team    *team.Handler
	Project *project.Handler
	WorkLog *worklog.Handler
	Role    *role.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, sqlxDB *sqlx.DB, authzService *authz.Service, handlers Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	guard := middleware.NewGuard(authzService, logger)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", handlers.Auth.Login)
			sr.Post("/refresh", handlers.Auth.RefreshToken)
			sr.Post("/logout", handlers.Auth.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)

			// Current user
			pr.Get("/users/me", handlers.User.GetCurrentUser)
			pr.Get("/users/me/permissions", handlers.User.GetCurrentUserPermissions)

			// User directory, scoped by the caller's access levels
			pr.Route("/users", func(ur chi.Router) {
				ur.Group(func(gr chi.Router) {
					gr.Use(guard.Require(authz.ResourceUsers, authz.ActionRead))
					gr.Get("/", handlers.User.ListUsers)
					gr.Get("/{id}", handlers.User.GetUser)
				})

				// Role grants and access levels are role administration
				ur.Group(func(gr chi.Router) {
					gr.Use(guard.Require(authz.ResourceRoles, authz.ActionManage))
					gr.Get("/{id}/roles", handlers.Role.ListUserRoles)
					gr.Post("/{id}/roles", handlers.Role.AssignRole)
					gr.Delete("/{id}/roles/{roleID}", handlers.Role.RevokeRole)
					gr.Put("/{id}/access-levels", handlers.Role.UpdateAccessLevels)
				})
			})

			pr.Route("/teams", func(tr chi.Router) {
				tr.Use(guard.Require(authz.ResourceTeams, authz.ActionRead))
				tr.Get("/", handlers.Team.ListTeams)
				tr.Get("/{id}", handlers.Team.GetTeam)
			})

			pr.Route("/projects", func(prr chi.Router) {
				prr.Use(guard.Require(authz.ResourceProjects, authz.ActionRead))
				prr.Get("/", handlers.Project.ListProjects)
				prr.Get("/{id}", handlers.Project.GetProject)
			})

			pr.Route("/work-logs", func(wr chi.Router) {
				wr.Group(func(gr chi.Router) {
					gr.Use(guard.Require(authz.ResourceWorkLogs, authz.ActionCreate))
					gr.Post("/", handlers.WorkLog.CreateWorkLog)
				})

				wr.Group(func(gr chi.Router) {
					gr.Use(guard.Require(authz.ResourceWorkLogs, authz.ActionRead))
					gr.Get("/", handlers.WorkLog.ListWorkLogs)
				})

				// Detail routes add a record-level ownership gate on top
				// of the permission check
				wr.Group(func(gr chi.Router) {
					gr.Use(guard.Require(authz.ResourceWorkLogs, authz.ActionRead))
					gr.Use(middleware.RequireWorkLogAccess(sqlxDB, authzService, authz.ActionRead))
					gr.Get("/{id}", handlers.WorkLog.GetWorkLog)
				})

				wr.Group(func(gr chi.Router) {
					gr.Use(guard.Require(authz.ResourceWorkLogs, authz.ActionUpdate))
					gr.Use(middleware.RequireWorkLogAccess(sqlxDB, authzService, authz.ActionUpdate))
					gr.Patch("/{id}", handlers.WorkLog.UpdateWorkLog)
				})

				wr.Group(func(gr chi.Router) {
					gr.Use(guard.Require(authz.ResourceWorkLogs, authz.ActionDelete))
					gr.Use(middleware.RequireWorkLogAccess(sqlxDB, authzService, authz.ActionDelete))
					gr.Delete("/{id}", handlers.WorkLog.DeleteWorkLog)
				})
			})

			pr.Route("/roles", func(rr chi.Router) {
				rr.Group(func(gr chi.Router) {
					gr.Use(guard.RequireAny(
						middleware.Permission{Resource: authz.ResourceRoles, Action: authz.ActionRead},
						middleware.Permission{Resource: authz.ResourceRoles, Action: authz.ActionManage},
					))
					gr.Get("/", handlers.Role.ListRoles)
					gr.Get("/{id}", handlers.Role.GetRole)
				})

				rr.Group(func(gr chi.Router) {
					gr.Use(guard.Require(authz.ResourceRoles, authz.ActionManage))
					gr.Post("/", handlers.Role.CreateRole)
					gr.Patch("/{id}", handlers.Role.UpdateRole)
					gr.Delete("/{id}", handlers.Role.DeleteRole)
				})
			})

			pr.Group(func(gr chi.Router) {
				gr.Use(guard.Require(authz.ResourcePermissions, authz.ActionRead))
				gr.Get("/permissions", handlers.Role.ListPermissionCatalog)
			})
		})
	})
}
