package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ryz3006/alignzo/internal/auth"
	"github.com/ryz3006/alignzo/internal/authz"
)

// PermissionChecker resolves effective permissions for a user. The
// authorization service satisfies this.
type PermissionChecker interface {
	HasPermission(userID int64, resource, action string) (bool, error)
}

// Permission names a guarded resource/action pair.
type Permission struct {
	Resource string
	Action   string
}

// Guard builds per-route permission middleware backed by the
// authorization engine.
type Guard struct {
	checker PermissionChecker
	logger  *slog.Logger
}

func NewGuard(checker PermissionChecker, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{checker: checker, logger: logger}
}

// Require allows the request only when the caller holds the permission
// for the given resource and action. A resolver failure is a 500, never
// a silent deny.
func (g *Guard) Require(resource, action string) func(http.Handler) http.Handler {
	return g.RequireAny(Permission{Resource: resource, Action: action})
}

// RequireAny allows the request when the caller holds at least one of
// the listed permissions.
func (g *Guard) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			keys := make([]string, 0, len(perms))
			for _, p := range perms {
				keys = append(keys, authz.PermissionKey(p.Resource, p.Action))

				allowed, err := g.checker.HasPermission(user.ID, p.Resource, p.Action)
				if err != nil {
					g.logger.Error("permission check failed",
						"user_id", user.ID,
						"permission", authz.PermissionKey(p.Resource, p.Action),
						"error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				if allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			g.logger.Warn("access denied: user lacks required permissions",
				"user_id", user.ID,
				"permissions", keys)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		})
	}
}
