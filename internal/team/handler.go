package team

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
	List(requesterID int64, search string) ([]*Team, error)
	Get(requesterID, teamID int64) (*TeamDetail, error)
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

// ListTeams handles GET /teams
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	teams, err := h.Service.List(requester.ID, r.URL.Query().Get("search"))
	if err != nil {
		h.Logger.Error("ListTeams: service failed", "requester_id", requester.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if teams == nil {
		teams = []*Team{}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// GetTeam handles GET /teams/{id}
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	detail, err := h.Service.Get(requester.ID, id)
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			h.WriteError(w, http.StatusNotFound, "team not found")
			return
		}
		h.Logger.Error("GetTeam: service failed", "requester_id", requester.ID, "team_id", id, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}
