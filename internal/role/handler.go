package role

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	internal "github.com/ryz3006/alignzo/internal"
	"github.com/ryz3006/alignzo/internal/auth"
	"github.com/ryz3006/alignzo/internal/transport"
	"github.com/ryz3006/alignzo/pkg/logger"
)

type ServiceAPI interface {
	ListRoles() ([]*Role, error)
	GetRole(id int64) (*RoleDetail, error)
	CreateRole(dto CreateRoleDTO) (*Role, error)
	UpdateRole(id int64, dto UpdateRoleDTO) (*RoleDetail, error)
	DeleteRole(id int64) error
	ListPermissionCatalog() ([]*Permission, error)
	ListUserRoles(userID int64) ([]*Grant, error)
	AssignRole(userID int64, dto AssignRoleDTO, grantedBy int64) error
	RevokeRole(userID, roleID int64) error
	UpdateAccessLevels(userID int64, dto UpdateAccessLevelsDTO) error
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

// ListRoles handles GET /roles
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if roles == nil {
		roles = []*Role{}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"roles": roles})
}

// GetRole handles GET /roles/{id}
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid role id")
		return
	}

	detail, err := h.Service.GetRole(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

// CreateRole handles POST /roles
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateRole(dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// UpdateRole handles PATCH /roles/{id}
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid role id")
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.Service.UpdateRole(id, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

// DeleteRole handles DELETE /roles/{id}
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid role id")
		return
	}

	if err := h.Service.DeleteRole(id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPermissionCatalog handles GET /permissions
func (h *Handler) ListPermissionCatalog(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ListPermissionCatalog()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if perms == nil {
		perms = []*Permission{}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"permissions": perms})
}

// ListUserRoles handles GET /users/{id}/roles
func (h *Handler) ListUserRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	grants, err := h.Service.ListUserRoles(userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if grants == nil {
		grants = []*Grant{}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"roles": grants})
}

// AssignRole handles POST /users/{id}/roles
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto AssignRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.AssignRole(userID, dto, requester.ID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RevokeRole handles DELETE /users/{id}/roles/{roleID}
func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	roleID, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid role id")
		return
	}

	if err := h.Service.RevokeRole(userID, roleID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateAccessLevels handles PUT /users/{id}/access-levels
func (h *Handler) UpdateAccessLevels(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto UpdateAccessLevelsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateAccessLevels(userID, dto); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var appErr *internal.AppError
	switch {
	case errors.Is(err, ErrRoleNotFound):
		h.WriteError(w, http.StatusNotFound, "role not found")
	case errors.Is(err, ErrUserNotFound):
		h.WriteError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ErrSystemRoleProtected), errors.Is(err, ErrSystemPermissionProtected):
		h.WriteAppError(w, err)
	case errors.As(err, &appErr):
		h.WriteAppError(w, err)
	default:
		h.Logger.Error("role service failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
