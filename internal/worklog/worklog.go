package worklog

import (
	"time"

	internal "github.com/ryz3006/alignzo/internal"
	worklogDatamodel "github.com/ryz3006/alignzo/internal/core/datamodel/worklog"
)

var (
	ErrWorkLogNotFound = internal.ErrWorkLogNotFound
	ErrAccessDenied    = internal.ErrAccessDenied
)

// WorkLog is a single time entry against a project.
type WorkLog struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProjectID   int64     `json:"project_id"`
	Description string    `json:"description"`
	Minutes     int64     `json:"minutes"`
	LogDate     time.Time `json:"log_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewWorkLog(userID int64, dto CreateWorkLogDTO) *WorkLog {
	now := time.Now()

	return &WorkLog{
		UserID:      userID,
		ProjectID:   dto.ProjectID,
		Description: dto.Description,
		Minutes:     dto.Minutes,
		LogDate:     dto.LogDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(w *WorkLog) *worklogDatamodel.WorkLog {
	return &worklogDatamodel.WorkLog{
		ID:          w.ID,
		UserID:      w.UserID,
		ProjectID:   w.ProjectID,
		Description: w.Description,
		Minutes:     w.Minutes,
		LogDate:     w.LogDate,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func FromDataModel(w *worklogDatamodel.WorkLog) *WorkLog {
	return &WorkLog{
		ID:          w.ID,
		UserID:      w.UserID,
		ProjectID:   w.ProjectID,
		Description: w.Description,
		Minutes:     w.Minutes,
		LogDate:     w.LogDate,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func FromDataModelSlice(logs []*worklogDatamodel.WorkLog) []*WorkLog {
	result := make([]*WorkLog, len(logs))
	for i, w := range logs {
		result[i] = FromDataModel(w)
	}
	return result
}
