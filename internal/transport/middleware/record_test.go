package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ryz3006/alignzo/internal/auth"
	"github.com/ryz3006/alignzo/internal/authz"
)

func TestMiddleware(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Transport Middleware Suite")
}

type stubChecker struct {
	allowed    bool
	err        error
	lastAction string
	lastTarget int64
}

func (s *stubChecker) CanAccessUser(requesterID, targetUserID int64, action string) (bool, error) {
	s.lastAction = action
	s.lastTarget = targetUserID
	return s.allowed, s.err
}

type workLogRow struct {
	ID     int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"column:user_id"`
}

func (workLogRow) TableName() string { return "work_logs" }

var _ = ginkgo.Describe("RequireWorkLogAccess", func() {
	var (
		db      *sqlx.DB
		gormDB  *gorm.DB
		checker *stubChecker
	)

	ginkgo.BeforeEach(func() {
		var err error
		gormDB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(gormDB.AutoMigrate(&workLogRow{})).To(gomega.Succeed())
		gomega.Expect(gormDB.Create(&workLogRow{ID: 5, UserID: 42}).Error).ToNot(gomega.HaveOccurred())

		sqlDB, err := gormDB.DB()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		db = sqlx.NewDb(sqlDB, "sqlite3")

		checker = &stubChecker{allowed: true}
	})

	ginkgo.AfterEach(func() {
		gomega.Expect(db.Close()).To(gomega.Succeed())
	})

	serve := func(action string, path string) *httptest.ResponseRecorder {
		router := chi.NewRouter()
		router.Route("/work-logs", func(r chi.Router) {
			r.Use(RequireWorkLogAccess(db, checker, action))
			r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})

		req := httptest.NewRequest(http.MethodGet, path, nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: 7}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.It("should check the route's own action against the record owner", func() {
		rec := serve(authz.ActionUpdate, "/work-logs/5")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(checker.lastAction).To(gomega.Equal(authz.ActionUpdate))
		gomega.Expect(checker.lastTarget).To(gomega.Equal(int64(42)))
	})

	ginkgo.It("should forbid when the checker denies", func() {
		checker.allowed = false

		rec := serve(authz.ActionRead, "/work-logs/5")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("should forbid an unknown record without leaking existence", func() {
		rec := serve(authz.ActionDelete, "/work-logs/999")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
	})
})
