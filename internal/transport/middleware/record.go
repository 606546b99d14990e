package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"

	"github.com/ryz3006/alignzo/internal/auth"
)

var ErrForbidden = errors.New("forbidden")

// AccessChecker answers whether one user may see another user's records.
// The authorization service satisfies this.
type AccessChecker interface {
	CanAccessUser(requesterID, targetUserID int64, action string) (bool, error)
}

// RequireRecordAccess is a generic wrapper that resolves the record
// owner and runs an accessibility check against them.
func RequireRecordAccess(check func(u *auth.User, r *http.Request) error) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := check(u, r); err != nil {
				if errors.Is(err, ErrForbidden) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireWorkLogAccess looks up the owner of the work log named by the
// {id} URL parameter and admits the request only when the caller can
// perform the route's action against that owner's records. A missing row
// reads as forbidden; a lookup failure surfaces as a 500.
func RequireWorkLogAccess(db *sqlx.DB, checker AccessChecker, action string) func(next http.Handler) http.Handler {
	return RequireRecordAccess(func(u *auth.User, r *http.Request) error {
		idStr := chi.URLParam(r, "id")
		if idStr == "" {
			return ErrForbidden
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return ErrForbidden
		}

		var ownerID int64
		err = db.GetContext(r.Context(), &ownerID, "SELECT user_id FROM work_logs WHERE id=$1", id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrForbidden
			}
			return err
		}

		allowed, err := checker.CanAccessUser(u.ID, ownerID, action)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrForbidden
		}
		return nil
	})
}
