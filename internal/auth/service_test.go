package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	users         map[string]string // email -> password hash
	userIDs       map[string]int64  // email -> userID
	usersByID     map[int64]*User
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	return &mockUserRepository{
		users: map[string]string{
			"user@example.com":  string(hashedPassword),
			"admin@example.com": string(hashedPassword),
		},
		userIDs: map[string]int64{
			"user@example.com":  1,
			"admin@example.com": 2,
		},
		usersByID: map[int64]*User{
			1: {ID: 1, Email: "user@example.com", Name: "User"},
			2: {ID: 2, Email: "admin@example.com", Name: "Admin"},
		},
	}
}

func (m *mockUserRepository) GetPasswordForEmail(email string) (string, int64, error) {
	if m.returnError {
		return "", 0, m.errorToReturn
	}

	if hash, exists := m.users[email]; exists {
		if userID, userExists := m.userIDs[email]; userExists {
			return hash, userID, nil
		}
	}
	return "", 0, errors.New("user not found")
}

func (m *mockUserRepository) GetUserByID(userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}

	if user, exists := m.usersByID[userID]; exists {
		return user, nil
	}
	return nil, errors.New("user not found")
}

type mockPermissionLister struct {
	permissions map[int64][]string
	err         error
}

func (m *mockPermissionLister) ListPermissions(userID int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.permissions[userID], nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service    *Service
		mockRepo   *mockUserRepository
		mockPerms  *mockPermissionLister
		tokenGen   *JWTTokenGenerator
		accessTTL  time.Duration = 15 * time.Minute
		refreshTTL time.Duration = 24 * time.Hour
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		mockPerms = &mockPermissionLister{
			permissions: map[int64][]string{
				1: {"work_logs.read", "work_logs.create"},
				2: {"users.read", "users.update", "work_logs.read"},
			},
		}
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", accessTTL, refreshTTL)
		service = NewService(mockRepo, mockPerms, tokenGen, bcrypt.DefaultCost)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				dto := LoginDTO{
					Email:    "user@example.com",
					Password: "correct_password",
				}

				tokens, err := service.Authenticate(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should generate valid JWT tokens", func() {
				dto := LoginDTO{
					Email:    "admin@example.com",
					Password: "correct_password",
				}

				tokens, err := service.Authenticate(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(2)))
				gomega.Expect(claims.Email).To(gomega.Equal("admin@example.com"))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return error for unknown email", func() {
				dto := LoginDTO{
					Email:    "nonexistent@example.com",
					Password: "any_password",
				}

				tokens, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should return error for wrong password", func() {
				dto := LoginDTO{
					Email:    "user@example.com",
					Password: "wrong_password",
				}

				tokens, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should return validation error for empty email", func() {
				dto := LoginDTO{Password: "password"}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("email is required"))
			})

			ginkgo.It("should return validation error for empty password", func() {
				dto := LoginDTO{Email: "user@example.com"}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue a new pair for a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "user@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(refreshed.RefreshToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})
	})

	ginkgo.Describe("GetUserWithPermissions", func() {
		ginkgo.It("should decorate the user with engine-resolved permissions", func() {
			user, err := service.GetUserWithPermissions(2)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user.Email).To(gomega.Equal("admin@example.com"))
			gomega.Expect(user.Permissions).To(gomega.ConsistOf("users.read", "users.update", "work_logs.read"))
		})

		ginkgo.It("should propagate engine failures", func() {
			mockPerms.err = errors.New("connection refused")

			_, err := service.GetUserWithPermissions(2)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
