package team

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/ryz3006/alignzo/internal/authz"
)

func TestTeam(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Team Module Suite")
}

type mockRepository struct {
	teams      map[int64]*TeamDetail
	lastPred   authz.Predicate
	lastSearch string
}

func (m *mockRepository) List(pred authz.Predicate, search string) ([]*Team, error) {
	m.lastPred = pred
	m.lastSearch = search
	if pred.IsMatchNone() {
		return nil, nil
	}

	var out []*Team
	for _, d := range m.teams {
		t := d.Team
		out = append(out, &t)
	}
	return out, nil
}

func (m *mockRepository) GetByID(pred authz.Predicate, id int64) (*TeamDetail, error) {
	m.lastPred = pred
	if pred.IsMatchNone() {
		return nil, ErrTeamNotFound
	}
	if d, ok := m.teams[id]; ok {
		return d, nil
	}
	return nil, ErrTeamNotFound
}

type mockEngine struct {
	pred authz.Predicate
	err  error
}

func (m *mockEngine) BuildScopeFilter(userID int64, resource authz.ResourceType) (authz.Predicate, error) {
	if m.err != nil {
		return authz.Predicate{}, m.err
	}
	return m.pred, nil
}

var _ = ginkgo.Describe("TeamService", func() {
	var (
		service *Service
		repo    *mockRepository
		engine  *mockEngine
	)

	ginkgo.BeforeEach(func() {
		repo = &mockRepository{
			teams: map[int64]*TeamDetail{
				10: {
					Team: Team{ID: 10, Name: "Platform", OrganizationID: 1, IsActive: true},
					Members: []Member{
						{UserID: 1, Name: "Alice", Role: "lead"},
					},
				},
			},
		}
		engine = &mockEngine{
			pred: authz.Predicate{Resource: authz.ResourceTypeTeam}.Or("id IN ?", []int64{10}),
		}
		service = NewService(repo, engine, slog.Default())
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should list teams inside the scope predicate", func() {
			teams, err := service.List(1, "")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(teams).To(gomega.HaveLen(1))
			gomega.Expect(repo.lastPred.Resource).To(gomega.Equal(authz.ResourceTypeTeam))
		})

		ginkgo.It("should pass the search term through to the repository", func() {
			_, err := service.List(1, "plat")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastSearch).To(gomega.Equal("plat"))
		})

		ginkgo.It("should return nothing for an unscoped caller", func() {
			engine.pred = authz.MatchNone(authz.ResourceTypeTeam)

			teams, err := service.List(1, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(teams).To(gomega.BeEmpty())
		})

		ginkgo.It("should propagate scope resolution failures", func() {
			engine.err = errors.New("connection refused")

			_, err := service.List(1, "")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("should return the team with its roster", func() {
			detail, err := service.Get(1, 10)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail.Name).To(gomega.Equal("Platform"))
			gomega.Expect(detail.Members).To(gomega.HaveLen(1))
		})

		ginkgo.It("should report an out-of-scope team as not found", func() {
			engine.pred = authz.MatchNone(authz.ResourceTypeTeam)

			_, err := service.Get(1, 10)
			gomega.Expect(err).To(gomega.Equal(ErrTeamNotFound))
		})
	})
})
