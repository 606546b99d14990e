package worklog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	internal "github.com/ryz3006/alignzo/internal"
	"github.com/ryz3006/alignzo/internal/auth"
	"github.com/ryz3006/alignzo/internal/transport"
	"github.com/ryz3006/alignzo/pkg/logger"
)

type ServiceAPI interface {
	Create(requesterID int64, dto CreateWorkLogDTO) (*WorkLog, error)
	List(requesterID int64, params ListParams) ([]*WorkLog, int64, error)
	Get(requesterID, id int64) (*WorkLog, error)
	Update(requesterID, id int64, dto UpdateWorkLogDTO) (*WorkLog, error)
	Delete(requesterID, id int64) error
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
	WorkLogs []*WorkLog `json:"work_logs"`
	Total    int64      `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

// CreateWorkLog handles POST /work-logs
func (h *Handler) CreateWorkLog(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateWorkLogDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wl, err := h.Service.Create(requester.ID, dto)
	if err != nil {
		h.writeServiceError(w, requester.ID, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, wl)
}

// ListWorkLogs handles GET /work-logs
func (h *Handler) ListWorkLogs(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	params, err := parseListParams(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, total, err := h.Service.List(requester.ID, params)
	if err != nil {
		h.writeServiceError(w, requester.ID, err)
		return
	}

	if logs == nil {
		logs = []*WorkLog{}
	}

	h.WriteJSON(w, http.StatusOK, listResponse{
		WorkLogs: logs,
		Total:    total,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
}

// GetWorkLog handles GET /work-logs/{id}
func (h *Handler) GetWorkLog(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work log id")
		return
	}

	wl, err := h.Service.Get(requester.ID, id)
	if err != nil {
		h.writeServiceError(w, requester.ID, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wl)
}

// UpdateWorkLog handles PATCH /work-logs/{id}
func (h *Handler) UpdateWorkLog(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work log id")
		return
	}

	var dto UpdateWorkLogDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wl, err := h.Service.Update(requester.ID, id, dto)
	if err != nil {
		h.writeServiceError(w, requester.ID, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wl)
}

// DeleteWorkLog handles DELETE /work-logs/{id}
func (h *Handler) DeleteWorkLog(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok || requester == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work log id")
		return
	}

	if err := h.Service.Delete(requester.ID, id); err != nil {
		h.writeServiceError(w, requester.ID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, requesterID int64, err error) {
	var appErr *internal.AppError
	switch {
	case errors.Is(err, ErrWorkLogNotFound):
		h.WriteError(w, http.StatusNotFound, "work log not found")
	case errors.Is(err, ErrAccessDenied):
		h.WriteError(w, http.StatusForbidden, "forbidden")
	case errors.As(err, &appErr):
		h.WriteAppError(w, err)
	default:
		h.Logger.Error("work log service failed", "requester_id", requesterID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseListParams(r *http.Request) (ListParams, error) {
	q := r.URL.Query()

	params := ListParams{
		Search: q.Get("search"),
	}

	if v := q.Get("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return params, errors.New("invalid project_id")
		}
		params.ProjectID = id
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return params, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		params.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return params, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		params.To = t
	}
	if v := q.Get("limit"); v != "" {
		params.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		params.Offset, _ = strconv.Atoi(v)
	}

	params.Normalize()
	return params, nil
}
