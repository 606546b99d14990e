package project

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
	List(requesterID int64, params ListParams) ([]*Project, error)
	Get(requesterID, projectID int64) (*ProjectDetail, error)
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

// ListProjects handles GET /projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := ListParams{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	projects, err := h.Service.List(requester.ID, params)
	if err != nil {
		h.Logger.Error("ListProjects: service failed", "requester_id", requester.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if projects == nil {
		projects = []*Project{}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

// GetProject handles GET /projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	detail, err := h.Service.Get(requester.ID, id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			h.WriteError(w, http.StatusNotFound, "project not found")
			return
		}
		h.Logger.Error("GetProject: service failed", "requester_id", requester.ID, "project_id", id, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}
