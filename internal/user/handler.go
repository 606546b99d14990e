package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/ryz3006/alignzo/internal/auth"
	"github.com/ryz3006/alignzo/internal/transport"
	"github.com/ryz3006/alignzo/pkg/logger"
)

type ServiceAPI interface {
	List(requesterID int64, params SearchParams) ([]*User, int64, error)
	Get(requesterID, targetID int64) (*User, error)
	GetSelf(requesterID int64) (*User, error)
	Permissions(requesterID int64) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

type listResponse struct {
	Users  []*User `json:"users"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := SearchParams{
		Search: r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		params.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		params.Offset, _ = strconv.Atoi(v)
	}
	params.Normalize()

	users, total, err := h.Service.List(requester.ID, params)
	if err != nil {
		h.Logger.Error("ListUsers: service failed", "requester_id", requester.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if users == nil {
		users = []*User{}
	}

	h.WriteJSON(w, http.StatusOK, listResponse{
		Users:  users,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	u, err := h.Service.Get(requester.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccessDenied):
			h.WriteError(w, http.StatusForbidden, "forbidden")
		case errors.Is(err, ErrUserNotFound):
			h.WriteError(w, http.StatusNotFound, "user not found")
		default:
			h.Logger.Error("GetUser: service failed", "requester_id", requester.ID, "target_id", id, "error", err)
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetSelf(requester.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service failed", "user_id", requester.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetCurrentUserPermissions handles GET /users/me/permissions
func (h *Handler) GetCurrentUserPermissions(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	perms, err := h.Service.Permissions(requester.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUserPermissions: service failed", "user_id", requester.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if perms == nil {
		perms = []string{}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"permissions": perms})
}
