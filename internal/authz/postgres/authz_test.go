package postgres

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/ryz3006/alignzo/internal/authz"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAuthzRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuthzRepository Suite")
}

type SQLiteUser struct {
	ID             int64  `gorm:"primaryKey"`
	OrganizationID *int64 `gorm:"column:organization_id"`
}

func (SQLiteUser) TableName() string { return "users" }

type SQLiteRole struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"column:name"`
	IsActive bool   `gorm:"column:is_active"`
}

func (SQLiteRole) TableName() string { return "roles" }

type SQLitePermission struct {
	ID       int64  `gorm:"primaryKey"`
	Resource string `gorm:"column:resource"`
	Action   string `gorm:"column:action"`
}

func (SQLitePermission) TableName() string { return "permissions" }

type SQLiteRolePermission struct {
	ID           int64 `gorm:"primaryKey"`
	RoleID       int64 `gorm:"column:role_id"`
	PermissionID int64 `gorm:"column:permission_id"`
}

func (SQLiteRolePermission) TableName() string { return "role_permissions" }

type SQLiteUserRole struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"column:user_id"`
	RoleID    int64  `gorm:"column:role_id"`
	IsActive  bool   `gorm:"column:is_active"`
	GrantedAt string `gorm:"column:granted_at"`
}

func (SQLiteUserRole) TableName() string { return "user_roles" }

type SQLiteUserPermission struct {
	ID           int64 `gorm:"primaryKey"`
	UserID       int64 `gorm:"column:user_id"`
	PermissionID int64 `gorm:"column:permission_id"`
	IsActive     bool  `gorm:"column:is_active"`
}

func (SQLiteUserPermission) TableName() string { return "user_permissions" }

type SQLiteUserAccessLevel struct {
	ID     int64  `gorm:"primaryKey"`
	UserID int64  `gorm:"column:user_id"`
	Level  string `gorm:"column:level"`
}

func (SQLiteUserAccessLevel) TableName() string { return "user_access_levels" }

type SQLiteTeam struct {
	ID       int64 `gorm:"primaryKey"`
	IsActive bool  `gorm:"column:is_active"`
}

func (SQLiteTeam) TableName() string { return "teams" }

type SQLiteTeamMember struct {
	ID       int64 `gorm:"primaryKey"`
	TeamID   int64 `gorm:"column:team_id"`
	UserID   int64 `gorm:"column:user_id"`
	IsActive bool  `gorm:"column:is_active"`
}

func (SQLiteTeamMember) TableName() string { return "team_members" }

type SQLiteProject struct {
	ID       int64 `gorm:"primaryKey"`
	IsActive bool  `gorm:"column:is_active"`
}

func (SQLiteProject) TableName() string { return "projects" }

type SQLiteProjectMember struct {
	ID        int64 `gorm:"primaryKey"`
	ProjectID int64 `gorm:"column:project_id"`
	UserID    int64 `gorm:"column:user_id"`
	IsActive  bool  `gorm:"column:is_active"`
}

func (SQLiteProjectMember) TableName() string { return "project_members" }

var _ = Describe("AuthzRepository", func() {
	var (
		db   *gorm.DB
		repo authz.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&SQLiteUser{}, &SQLiteRole{}, &SQLitePermission{}, &SQLiteRolePermission{},
			&SQLiteUserRole{}, &SQLiteUserPermission{}, &SQLiteUserAccessLevel{},
			&SQLiteTeam{}, &SQLiteTeamMember{}, &SQLiteProject{}, &SQLiteProjectMember{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("ActiveRoleNames", func() {
		BeforeEach(func() {
			Expect(db.Create(&[]SQLiteRole{
				{ID: 1, Name: "ADMIN", IsActive: true},
				{ID: 2, Name: "VIEWER", IsActive: true},
				{ID: 3, Name: "RETIRED", IsActive: false},
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&[]SQLiteUserRole{
				{UserID: 1, RoleID: 2, IsActive: true, GrantedAt: "2024-01-01"},
				{UserID: 1, RoleID: 1, IsActive: true, GrantedAt: "2024-02-01"},
				{UserID: 1, RoleID: 3, IsActive: true, GrantedAt: "2024-03-01"},
				{UserID: 2, RoleID: 1, IsActive: false, GrantedAt: "2024-01-01"},
			}).Error).NotTo(HaveOccurred())
		})

		It("should return only active assignments of active roles, oldest first", func() {
			names, err := repo.ActiveRoleNames(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"VIEWER", "ADMIN"}))
		})

		It("should skip inactive assignments", func() {
			names, err := repo.ActiveRoleNames(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(BeEmpty())
		})
	})

	Describe("permission lookups", func() {
		BeforeEach(func() {
			Expect(db.Create(&[]SQLitePermission{
				{ID: 1, Resource: "users", Action: "read"},
				{ID: 2, Resource: "teams", Action: "read"},
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&SQLiteRole{ID: 1, Name: "VIEWER", IsActive: true}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&SQLiteRolePermission{RoleID: 1, PermissionID: 2}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&SQLiteUserRole{UserID: 1, RoleID: 1, IsActive: true, GrantedAt: "2024-01-01"}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&SQLiteUserPermission{UserID: 1, PermissionID: 1, IsActive: true}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&SQLiteUserPermission{UserID: 2, PermissionID: 1, IsActive: false}).Error).NotTo(HaveOccurred())
		})

		It("should find direct grants", func() {
			ok, err := repo.HasDirectPermission(1, "users", "read")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("should ignore inactive direct grants", func() {
			ok, err := repo.HasDirectPermission(2, "users", "read")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should find role-derived grants", func() {
			ok, err := repo.HasRolePermission(1, "teams", "read")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("should enumerate keys in resource.action form", func() {
			direct, err := repo.DirectPermissionKeys(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(direct).To(ConsistOf("users.read"))

			viaRoles, err := repo.RolePermissionKeys(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(viaRoles).To(ConsistOf("teams.read"))

			catalog, err := repo.CatalogKeys()
			Expect(err).NotTo(HaveOccurred())
			Expect(catalog).To(ConsistOf("users.read", "teams.read"))

			forUsers, err := repo.CatalogKeysForResource("users")
			Expect(err).NotTo(HaveOccurred())
			Expect(forUsers).To(ConsistOf("users.read"))
		})
	})

	Describe("membership reads", func() {
		BeforeEach(func() {
			Expect(db.Create(&[]SQLiteTeam{
				{ID: 1, IsActive: true},
				{ID: 2, IsActive: false},
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&[]SQLiteTeamMember{
				{TeamID: 1, UserID: 1, IsActive: true},
				{TeamID: 1, UserID: 2, IsActive: true},
				{TeamID: 1, UserID: 3, IsActive: false},
				{TeamID: 2, UserID: 1, IsActive: true},
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&[]SQLiteProject{
				{ID: 1, IsActive: true},
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&[]SQLiteProjectMember{
				{ProjectID: 1, UserID: 1, IsActive: true},
				{ProjectID: 1, UserID: 4, IsActive: true},
			}).Error).NotTo(HaveOccurred())
		})

		It("should only list memberships of active teams", func() {
			ids, err := repo.TeamIDs(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]int64{1}))
		})

		It("should only list active members", func() {
			ids, err := repo.TeamMemberIDs([]int64{1})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf(int64(1), int64(2)))
		})

		It("should detect shared active teams", func() {
			shares, err := repo.SharesActiveTeam(1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(shares).To(BeTrue())

			shares, err = repo.SharesActiveTeam(1, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(shares).To(BeFalse())
		})

		It("should detect shared active projects", func() {
			shares, err := repo.SharesActiveProject(1, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(shares).To(BeTrue())

			shares, err = repo.SharesActiveProject(1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(shares).To(BeFalse())
		})
	})

	Describe("OrganizationID", func() {
		It("should distinguish null from assigned organizations", func() {
			orgID := int64(7)
			Expect(db.Create(&[]SQLiteUser{
				{ID: 1, OrganizationID: &orgID},
				{ID: 2},
			}).Error).NotTo(HaveOccurred())

			got, err := repo.OrganizationID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(*got).To(Equal(int64(7)))

			got, err = repo.OrganizationID(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("AccessLevels", func() {
		It("should return the stored multiset", func() {
			Expect(db.Create(&[]SQLiteUserAccessLevel{
				{UserID: 1, Level: "TEAM"},
				{UserID: 1, Level: "PROJECT"},
			}).Error).NotTo(HaveOccurred())

			levels, err := repo.AccessLevels(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(levels).To(ConsistOf("TEAM", "PROJECT"))
		})
	})
})
