package authz

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/ryz3006/alignzo/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type SQLiteUser struct {
	ID             int64  `gorm:"primaryKey"`
	Name           string `gorm:"column:name"`
	OrganizationID *int64 `gorm:"column:organization_id"`
}

func (SQLiteUser) TableName() string { return "users" }

type SQLiteTeam struct {
	ID             int64 `gorm:"primaryKey"`
	OrganizationID int64 `gorm:"column:organization_id"`
	IsActive       bool  `gorm:"column:is_active"`
}

func (SQLiteTeam) TableName() string { return "teams" }

type SQLiteProject struct {
	ID             int64 `gorm:"primaryKey"`
	OrganizationID int64 `gorm:"column:organization_id"`
	IsActive       bool  `gorm:"column:is_active"`
}

func (SQLiteProject) TableName() string { return "projects" }

type SQLiteWorkLog struct {
	ID        int64 `gorm:"primaryKey"`
	UserID    int64 `gorm:"column:user_id"`
	ProjectID int64 `gorm:"column:project_id"`
}

func (SQLiteWorkLog) TableName() string { return "work_logs" }

var _ = Describe("Predicate", func() {
	var (
		db       *gorm.DB
		mockRepo *mockRepository
		service  *Service
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteTeam{}, &SQLiteProject{}, &SQLiteWorkLog{})
		Expect(err).NotTo(HaveOccurred())

		mockRepo = newMockRepository()
		service = NewService(mockRepo, logger.LoggerWrapper())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	userIDs := func(q *gorm.DB) []int64 {
		var ids []int64
		Expect(q.Model(&SQLiteUser{}).Order("id").Pluck("id", &ids).Error).NotTo(HaveOccurred())
		return ids
	}

	Describe("team-scoped visibility over users", func() {
		BeforeEach(func() {
			// U=1 with teammates 2 and 3 on team 10; user 4 is elsewhere
			Expect(db.Create(&[]SQLiteUser{
				{ID: 1, Name: "u"}, {ID: 2, Name: "u2"}, {ID: 3, Name: "u3"}, {ID: 4, Name: "other"},
			}).Error).NotTo(HaveOccurred())

			mockRepo.levels[1] = []string{"TEAM"}
			mockRepo.teams[1] = []int64{10}
			mockRepo.teamMembers[10] = []int64{1, 2, 3}
		})

		It("should match exactly the caller and teammates", func() {
			p, err := service.BuildScopeFilter(1, ResourceTypeUser)
			Expect(err).NotTo(HaveOccurred())

			Expect(userIDs(p.Apply(db))).To(Equal([]int64{1, 2, 3}))
		})

		It("should compose conjunctively with business filters", func() {
			p, err := service.BuildScopeFilter(1, ResourceTypeUser)
			Expect(err).NotTo(HaveOccurred())

			q := p.Apply(db).Where("name LIKE ?", "u%")
			Expect(userIDs(q)).To(Equal([]int64{1, 2, 3}))

			q = p.Apply(db).Where("name = ?", "u2")
			Expect(userIDs(q)).To(Equal([]int64{2}))
		})
	})

	Describe("full-access visibility over projects", func() {
		BeforeEach(func() {
			Expect(db.Create(&[]SQLiteProject{
				{ID: 1, OrganizationID: 7, IsActive: true},
				{ID: 2, OrganizationID: 7, IsActive: true},
				{ID: 3, OrganizationID: 8, IsActive: true},
			}).Error).NotTo(HaveOccurred())

			mockRepo.levels[20] = []string{"FULL_ACCESS"}
			mockRepo.orgs[20] = 7
		})

		It("should match every project of the organization, membership or not", func() {
			p, err := service.BuildScopeFilter(20, ResourceTypeProject)
			Expect(err).NotTo(HaveOccurred())

			var ids []int64
			Expect(p.Apply(db).Model(&SQLiteProject{}).Order("id").Pluck("id", &ids).Error).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]int64{1, 2}))
		})
	})

	Describe("full-access visibility over work logs", func() {
		BeforeEach(func() {
			Expect(db.Create(&[]SQLiteProject{
				{ID: 1, OrganizationID: 7, IsActive: true},
				{ID: 2, OrganizationID: 8, IsActive: true},
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&[]SQLiteWorkLog{
				{ID: 1, UserID: 5, ProjectID: 1},
				{ID: 2, UserID: 6, ProjectID: 2},
			}).Error).NotTo(HaveOccurred())

			mockRepo.levels[20] = []string{"FULL_ACCESS"}
			mockRepo.orgs[20] = 7
		})

		It("should reach the organization through the owning project", func() {
			p, err := service.BuildScopeFilter(20, ResourceTypeWorkLog)
			Expect(err).NotTo(HaveOccurred())

			var ids []int64
			Expect(p.Apply(db).Model(&SQLiteWorkLog{}).Order("id").Pluck("id", &ids).Error).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]int64{1}))
		})
	})

	Describe("match-nothing predicates", func() {
		BeforeEach(func() {
			Expect(db.Create(&[]SQLiteTeam{
				{ID: 1, OrganizationID: 7, IsActive: true},
			}).Error).NotTo(HaveOccurred())
		})

		It("should return zero rows rather than an unrestricted query", func() {
			p, err := service.BuildScopeFilter(99, ResourceTypeTeam)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.IsMatchNone()).To(BeTrue())

			var count int64
			Expect(p.Apply(db).Model(&SQLiteTeam{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should hide even the caller's own work logs without a level", func() {
			Expect(db.Create(&SQLiteWorkLog{ID: 1, UserID: 99, ProjectID: 1}).Error).NotTo(HaveOccurred())

			p, err := service.BuildScopeFilter(99, ResourceTypeWorkLog)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.IsMatchNone()).To(BeTrue())

			var count int64
			Expect(p.Apply(db).Model(&SQLiteWorkLog{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})
})
