package role

import (
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/ryz3006/alignzo/internal/authz"
)

func TestRole(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Role Module Suite")
}

type mockRepository struct {
	roles        map[int64]*RoleDetail
	nextID       int64
	catalog      map[string]bool
	users        map[int64]bool
	grants       map[int64][]*Grant
	accessLevels map[int64][]string
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		roles: map[int64]*RoleDetail{
			1: {
				Role:        Role{ID: 1, Name: authz.RoleSuperAdmin, IsSystem: true, IsActive: true},
				Permissions: nil,
			},
			2: {
				Role:        Role{ID: 2, Name: "TEAM_LEAD", IsSystem: false, IsActive: true},
				Permissions: []string{"users.read", "work_logs.read"},
			},
		},
		nextID: 2,
		catalog: map[string]bool{
			"users.read":       true,
			"users.update":     true,
			"work_logs.read":   true,
			"work_logs.create": true,
		},
		users:        map[int64]bool{10: true, 11: true},
		grants:       map[int64][]*Grant{},
		accessLevels: map[int64][]string{},
	}
}

func (m *mockRepository) ListRoles() ([]*Role, error) {
	var out []*Role
	for _, d := range m.roles {
		r := d.Role
		out = append(out, &r)
	}
	return out, nil
}

func (m *mockRepository) GetRole(id int64) (*RoleDetail, error) {
	if d, ok := m.roles[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, ErrRoleNotFound
}

func (m *mockRepository) CreateRole(r *Role, permissionKeys []string) error {
	m.nextID++
	r.ID = m.nextID
	m.roles[r.ID] = &RoleDetail{Role: *r, Permissions: permissionKeys}
	return nil
}

func (m *mockRepository) UpdateRole(r *Role, permissionKeys *[]string) error {
	d := m.roles[r.ID]
	d.Role = *r
	if permissionKeys != nil {
		d.Permissions = *permissionKeys
	}
	return nil
}

func (m *mockRepository) DeleteRole(id int64) error {
	delete(m.roles, id)
	return nil
}

func (m *mockRepository) ListPermissions() ([]*Permission, error) {
	var out []*Permission
	for key := range m.catalog {
		out = append(out, &Permission{Key: key})
	}
	return out, nil
}

func (m *mockRepository) MissingPermissionKeys(keys []string) ([]string, error) {
	var missing []string
	for _, k := range keys {
		if !m.catalog[k] {
			missing = append(missing, k)
		}
	}
	return missing, nil
}

func (m *mockRepository) ListUserRoles(userID int64) ([]*Grant, error) {
	return m.grants[userID], nil
}

func (m *mockRepository) AssignRole(userID, roleID int64, grantedBy int64) error {
	name := m.roles[roleID].Name
	m.grants[userID] = append(m.grants[userID], &Grant{RoleID: roleID, RoleName: name, GrantedBy: &grantedBy})
	return nil
}

func (m *mockRepository) RevokeRole(userID, roleID int64) error {
	var kept []*Grant
	for _, g := range m.grants[userID] {
		if g.RoleID != roleID {
			kept = append(kept, g)
		}
	}
	m.grants[userID] = kept
	return nil
}

func (m *mockRepository) UserExists(userID int64) (bool, error) {
	return m.users[userID], nil
}

func (m *mockRepository) ReplaceAccessLevels(userID int64, levels []string) error {
	m.accessLevels[userID] = levels
	return nil
}

var _ = ginkgo.Describe("RoleService", func() {
	var (
		service *Service
		repo    *mockRepository
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo, slog.Default())
	})

	ginkgo.Describe("CreateRole", func() {
		ginkgo.It("should create a role carrying known catalog keys", func() {
			created, err := service.CreateRole(CreateRoleDTO{
				Name:        "REVIEWER",
				Permissions: []string{"users.read", "work_logs.read"},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.ID).ToNot(gomega.BeZero())
			gomega.Expect(created.IsSystem).To(gomega.BeFalse())
		})

		ginkgo.It("should reject unknown permission keys", func() {
			_, err := service.CreateRole(CreateRoleDTO{
				Name:        "REVIEWER",
				Permissions: []string{"users.read", "widgets.frobnicate"},
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("widgets.frobnicate"))
		})

		ginkgo.It("should reject an empty name", func() {
			_, err := service.CreateRole(CreateRoleDTO{Name: "  "})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should reject malformed permission keys", func() {
			_, err := service.CreateRole(CreateRoleDTO{
				Name:        "REVIEWER",
				Permissions: []string{"notakey"},
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("UpdateRole", func() {
		ginkgo.It("should refuse to touch a system role", func() {
			displayName := "Renamed"
			_, err := service.UpdateRole(1, UpdateRoleDTO{DisplayName: &displayName})

			gomega.Expect(err).To(gomega.Equal(ErrSystemRoleProtected))
		})

		ginkgo.It("should update a regular role", func() {
			displayName := "Team Lead"
			detail, err := service.UpdateRole(2, UpdateRoleDTO{DisplayName: &displayName})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail.DisplayName).To(gomega.Equal("Team Lead"))
		})

		ginkgo.It("should replace the permission set when given", func() {
			perms := []string{"users.read"}
			detail, err := service.UpdateRole(2, UpdateRoleDTO{Permissions: &perms})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail.Permissions).To(gomega.Equal([]string{"users.read"}))
		})

		ginkgo.It("should reject an empty update", func() {
			_, err := service.UpdateRole(2, UpdateRoleDTO{})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("DeleteRole", func() {
		ginkgo.It("should refuse to delete a system role", func() {
			err := service.DeleteRole(1)
			gomega.Expect(err).To(gomega.Equal(ErrSystemRoleProtected))
			gomega.Expect(repo.roles).To(gomega.HaveKey(int64(1)))
		})

		ginkgo.It("should delete a regular role", func() {
			err := service.DeleteRole(2)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.roles).ToNot(gomega.HaveKey(int64(2)))
		})

		ginkgo.It("should report a missing role as not found", func() {
			err := service.DeleteRole(99)
			gomega.Expect(err).To(gomega.Equal(ErrRoleNotFound))
		})
	})

	ginkgo.Describe("AssignRole and RevokeRole", func() {
		ginkgo.It("should grant a role to an existing user", func() {
			err := service.AssignRole(10, AssignRoleDTO{RoleID: 2}, 11)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.grants[10]).To(gomega.HaveLen(1))
			gomega.Expect(repo.grants[10][0].RoleName).To(gomega.Equal("TEAM_LEAD"))
		})

		ginkgo.It("should reject a grant to an unknown user", func() {
			err := service.AssignRole(99, AssignRoleDTO{RoleID: 2}, 11)
			gomega.Expect(err).To(gomega.Equal(ErrUserNotFound))
		})

		ginkgo.It("should reject a grant of an unknown role", func() {
			err := service.AssignRole(10, AssignRoleDTO{RoleID: 99}, 11)
			gomega.Expect(err).To(gomega.Equal(ErrRoleNotFound))
		})

		ginkgo.It("should revoke a grant", func() {
			gomega.Expect(service.AssignRole(10, AssignRoleDTO{RoleID: 2}, 11)).To(gomega.Succeed())

			err := service.RevokeRole(10, 2)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.grants[10]).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("UpdateAccessLevels", func() {
		ginkgo.It("should replace the stored level set", func() {
			err := service.UpdateAccessLevels(10, UpdateAccessLevelsDTO{
				Levels: []string{authz.LevelTeam, authz.LevelProject},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.accessLevels[10]).To(gomega.ConsistOf(authz.LevelTeam, authz.LevelProject))
		})

		ginkgo.It("should reject unknown levels", func() {
			err := service.UpdateAccessLevels(10, UpdateAccessLevelsDTO{
				Levels: []string{"GALAXY"},
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should accept clearing all levels", func() {
			err := service.UpdateAccessLevels(10, UpdateAccessLevelsDTO{Levels: nil})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.accessLevels[10]).To(gomega.BeEmpty())
		})
	})
})
