package user

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/ryz3006/alignzo/internal/authz"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type mockRepository struct {
	users    map[int64]*User
	lastPred authz.Predicate
	listErr  error
}

func (m *mockRepository) List(pred authz.Predicate, params SearchParams) ([]*User, int64, error) {
	m.lastPred = pred
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	if pred.IsMatchNone() {
		return nil, 0, nil
	}

	var out []*User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepository) GetByID(id int64) (*User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

type mockEngine struct {
	pred      authz.Predicate
	predErr   error
	canAccess map[int64]bool
	accessErr error
	perms     []string
	permsErr  error
}

func (m *mockEngine) BuildScopeFilter(userID int64, resource authz.ResourceType) (authz.Predicate, error) {
	if m.predErr != nil {
		return authz.Predicate{}, m.predErr
	}
	return m.pred, nil
}

func (m *mockEngine) CanAccessUser(requesterID, targetUserID int64, action string) (bool, error) {
	if m.accessErr != nil {
		return false, m.accessErr
	}
	return m.canAccess[targetUserID], nil
}

func (m *mockEngine) ListPermissions(userID int64) ([]string, error) {
	if m.permsErr != nil {
		return nil, m.permsErr
	}
	return m.perms, nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service *Service
		repo    *mockRepository
		engine  *mockEngine
	)

	ginkgo.BeforeEach(func() {
		repo = &mockRepository{
			users: map[int64]*User{
				1: {ID: 1, Email: "alice@example.com", Name: "Alice", IsActive: true},
				2: {ID: 2, Email: "bob@example.com", Name: "Bob", IsActive: true},
			},
		}
		engine = &mockEngine{
			pred:      authz.Predicate{Resource: authz.ResourceTypeUser}.Or("id = ?", int64(1)),
			canAccess: map[int64]bool{},
		}
		service = NewService(repo, engine, slog.Default())
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should pass the engine's scope predicate to the repository", func() {
			_, _, err := service.List(1, SearchParams{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastPred.Clauses).To(gomega.HaveLen(1))
			gomega.Expect(repo.lastPred.Clauses[0].Expr).To(gomega.Equal("id = ?"))
		})

		ginkgo.It("should return nothing when the predicate matches nothing", func() {
			engine.pred = authz.MatchNone(authz.ResourceTypeUser)

			users, total, err := service.List(1, SearchParams{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(users).To(gomega.BeEmpty())
			gomega.Expect(total).To(gomega.BeZero())
		})

		ginkgo.It("should propagate scope resolution failures", func() {
			engine.predErr = errors.New("connection refused")

			_, _, err := service.List(1, SearchParams{})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should clamp oversized page limits", func() {
			params := SearchParams{Limit: 10000}
			params.Normalize()
			gomega.Expect(params.Limit).To(gomega.Equal(MaxPageSize))
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("should deny when the accessibility check fails closed", func() {
			engine.canAccess[2] = false

			_, err := service.Get(1, 2)
			gomega.Expect(err).To(gomega.Equal(ErrAccessDenied))
		})

		ginkgo.It("should return the user when accessible", func() {
			engine.canAccess[2] = true

			u, err := service.Get(1, 2)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Email).To(gomega.Equal("bob@example.com"))
		})

		ginkgo.It("should propagate check failures instead of denying silently", func() {
			engine.accessErr = errors.New("timeout")

			_, err := service.Get(1, 2)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(errors.Is(err, ErrAccessDenied)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("GetSelf", func() {
		ginkgo.It("should skip the accessibility check", func() {
			engine.accessErr = errors.New("engine down")

			u, err := service.GetSelf(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.ID).To(gomega.Equal(int64(1)))
		})
	})

	ginkgo.Describe("Permissions", func() {
		ginkgo.It("should return the engine's permission keys", func() {
			engine.perms = []string{"users.read", "work_logs.read"}

			perms, err := service.Permissions(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.Equal([]string{"users.read", "work_logs.read"}))
		})
	})
})
