package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ryz3006/alignzo/internal/authz"
	"github.com/ryz3006/alignzo/internal/core/datamodel/org"
	"github.com/ryz3006/alignzo/internal/core/datamodel/rbac"
	userDatamodel "github.com/ryz3006/alignzo/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the permission catalog, system roles, and a demo organization for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			clearTables(gormDB)
		}

		seedCatalog(gormDB)
		roles := seedRoles(gormDB)
		seedDemoOrg(gormDB, roles, cfg.Security.BCryptCost)

		fmt.Println("Seeding complete")
	},
}

// catalogEntries is the permission catalog: one row per resource/action
// pair the engine can check.
var catalogEntries = []rbac.Permission{
	{Resource: authz.ResourceUsers, Action: authz.ActionRead, DisplayName: "View users", IsSystem: true},
	{Resource: authz.ResourceUsers, Action: authz.ActionUpdate, DisplayName: "Edit users", IsSystem: true},
	{Resource: authz.ResourceUsers, Action: authz.ActionManage, DisplayName: "Manage users", IsSystem: true},
	{Resource: authz.ResourceTeams, Action: authz.ActionRead, DisplayName: "View teams", IsSystem: true},
	{Resource: authz.ResourceTeams, Action: authz.ActionManage, DisplayName: "Manage teams", IsSystem: true},
	{Resource: authz.ResourceProjects, Action: authz.ActionRead, DisplayName: "View projects", IsSystem: true},
	{Resource: authz.ResourceProjects, Action: authz.ActionManage, DisplayName: "Manage projects", IsSystem: true},
	{Resource: authz.ResourceWorkLogs, Action: authz.ActionRead, DisplayName: "View work logs", IsSystem: true},
	{Resource: authz.ResourceWorkLogs, Action: authz.ActionCreate, DisplayName: "Log time", IsSystem: true},
	{Resource: authz.ResourceWorkLogs, Action: authz.ActionUpdate, DisplayName: "Edit work logs", IsSystem: true},
	{Resource: authz.ResourceWorkLogs, Action: authz.ActionDelete, DisplayName: "Delete work logs", IsSystem: true},
	{Resource: authz.ResourceRoles, Action: authz.ActionRead, DisplayName: "View roles", IsSystem: true},
	{Resource: authz.ResourceRoles, Action: authz.ActionManage, DisplayName: "Manage roles", IsSystem: true},
	{Resource: authz.ResourcePermissions, Action: authz.ActionRead, DisplayName: "View permission catalog", IsSystem: true},
}

func clearTables(db *gorm.DB) {
	tables := []string{
		"work_logs", "project_members", "team_members", "projects", "teams",
		"user_access_levels", "user_permissions", "user_roles",
		"role_permissions", "roles", "permissions", "users", "organizations",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", t, err)
		}
	}
	fmt.Println("Cleared existing data")
}

func seedCatalog(db *gorm.DB) {
	for _, p := range catalogEntries {
		entry := p
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource"}, {Name: "action"}},
			DoNothing: true,
		}).Create(&entry).Error
		if err != nil {
			log.Fatalf("failed to seed permission %s.%s: %v", p.Resource, p.Action, err)
		}
	}
	fmt.Printf("Seeded %d catalog permissions\n", len(catalogEntries))
}

// seedRoles creates the privileged system roles and two regular roles,
// returning them by name.
func seedRoles(db *gorm.DB) map[string]rbac.Role {
	roleDefs := []struct {
		Name        string
		DisplayName string
		IsSystem    bool
		Permissions []string
	}{
		// Privileged roles bypass the catalog; they carry no attachments
		{Name: authz.RoleSuperAdmin, DisplayName: "Super Administrator", IsSystem: true},
		{Name: authz.RoleAdmin, DisplayName: "Administrator", IsSystem: true},
		{
			Name:        "TEAM_LEAD",
			DisplayName: "Team Lead",
			Permissions: []string{
				"users.read", "teams.read", "projects.read",
				"work_logs.read", "work_logs.create", "work_logs.update", "work_logs.delete",
			},
		},
		{
			Name:        "MEMBER",
			DisplayName: "Member",
			Permissions: []string{
				"teams.read", "projects.read",
				"work_logs.read", "work_logs.create", "work_logs.update", "work_logs.delete",
			},
		},
	}

	out := make(map[string]rbac.Role, len(roleDefs))
	for _, def := range roleDefs {
		role := rbac.Role{Name: def.Name, DisplayName: def.DisplayName, IsSystem: def.IsSystem, IsActive: true}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&role).Error
		if err != nil {
			log.Fatalf("failed to seed role %s: %v", def.Name, err)
		}
		if role.ID == 0 {
			if err := db.Where("name = ?", def.Name).First(&role).Error; err != nil {
				log.Fatalf("failed to load role %s: %v", def.Name, err)
			}
		}
		out[def.Name] = role

		for _, key := range def.Permissions {
			var permID int64
			err := db.Table("permissions").
				Select("id").
				Where("resource || '.' || action = ?", key).
				Scan(&permID).Error
			if err != nil || permID == 0 {
				log.Fatalf("catalog permission %s missing for role %s", key, def.Name)
			}

			rp := rbac.RolePermission{RoleID: role.ID, PermissionID: permID}
			err = db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "role_id"}, {Name: "permission_id"}},
				DoNothing: true,
			}).Create(&rp).Error
			if err != nil {
				log.Fatalf("failed to attach %s to %s: %v", key, def.Name, err)
			}
		}
	}

	fmt.Printf("Seeded %d roles\n", len(roleDefs))
	return out
}

func seedDemoOrg(db *gorm.DB, roles map[string]rbac.Role, bcryptCost int) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	organization := org.Organization{Name: "Acme", IsActive: true}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&organization).Error
	if err != nil {
		log.Fatalf("failed to seed organization: %v", err)
	}
	if organization.ID == 0 {
		if err := db.Where("name = ?", "Acme").First(&organization).Error; err != nil {
			log.Fatalf("failed to load organization: %v", err)
		}
	}

	seedUser := func(email, name, roleName string, levels []string) userDatamodel.User {
		u := userDatamodel.User{
			Email:          email,
			Name:           name,
			PasswordHash:   string(hash),
			OrganizationID: &organization.ID,
			IsActive:       true,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&u).Error
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", email, err)
		}
		if u.ID == 0 {
			if err := db.Where("email = ?", email).First(&u).Error; err != nil {
				log.Fatalf("failed to load user %s: %v", email, err)
			}
		}

		grant := rbac.UserRole{UserID: u.ID, RoleID: roles[roleName].ID, IsActive: true}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
			DoNothing: true,
		}).Create(&grant).Error
		if err != nil {
			log.Fatalf("failed to grant %s to %s: %v", roleName, email, err)
		}

		for _, level := range levels {
			row := rbac.UserAccessLevel{UserID: u.ID, Level: level}
			err = db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "level"}},
				DoNothing: true,
			}).Create(&row).Error
			if err != nil {
				log.Fatalf("failed to set level %s for %s: %v", level, email, err)
			}
		}

		fmt.Println("Seeded user:", email)
		return u
	}

	seedUser("admin@alignzo.dev", "Alignzo Admin", authz.RoleAdmin, nil)
	lead := seedUser("lead@alignzo.dev", "Lena Lead", "TEAM_LEAD", []string{authz.LevelTeam, authz.LevelProject})
	member := seedUser("member@alignzo.dev", "Milo Member", "MEMBER", nil)

	seedTeam := org.Team{Name: "Platform", OrganizationID: organization.ID, IsActive: true}
	if err := firstOrCreateTeam(db, &seedTeam); err != nil {
		log.Fatalf("failed to seed team: %v", err)
	}

	seedProject := org.Project{Name: "Apollo", OrganizationID: organization.ID, Status: "active", IsActive: true}
	if err := firstOrCreateProject(db, &seedProject); err != nil {
		log.Fatalf("failed to seed project: %v", err)
	}

	teamMembers := []org.TeamMember{
		{TeamID: seedTeam.ID, UserID: lead.ID, Role: "lead", IsActive: true},
		{TeamID: seedTeam.ID, UserID: member.ID, Role: "member", IsActive: true},
	}
	for _, tm := range teamMembers {
		row := tm
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&row).Error
		if err != nil {
			log.Fatalf("failed to seed team member: %v", err)
		}
	}

	projectMembers := []org.ProjectMember{
		{ProjectID: seedProject.ID, UserID: lead.ID, Role: "lead", IsActive: true},
		{ProjectID: seedProject.ID, UserID: member.ID, Role: "member", IsActive: true},
	}
	for _, pm := range projectMembers {
		row := pm
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&row).Error
		if err != nil {
			log.Fatalf("failed to seed project member: %v", err)
		}
	}

	fmt.Println("Seeded demo organization:", organization.Name)
}

func firstOrCreateTeam(db *gorm.DB, t *org.Team) error {
	return db.Where(org.Team{Name: t.Name, OrganizationID: t.OrganizationID}).
		FirstOrCreate(t).Error
}

func firstOrCreateProject(db *gorm.DB, p *org.Project) error {
	return db.Where(org.Project{Name: p.Name, OrganizationID: p.OrganizationID}).
		FirstOrCreate(p).Error
}
