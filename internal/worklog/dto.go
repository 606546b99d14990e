package worklog

import (
	"time"

	errors "github.com/ryz3006/alignzo/internal"
	"github.com/ryz3006/alignzo/internal/core/common/validation"
)

// CreateWorkLogDTO is the request payload for logging time.
type CreateWorkLogDTO struct {
	ProjectID   int64     `json:"project_id"`
	Description string    `json:"description"`
	Minutes     int64     `json:"minutes"`
	LogDate     time.Time `json:"log_date"`
}

func (dto CreateWorkLogDTO) Validate() *errors.AppError {
	if dto.ProjectID <= 0 {
		return errors.NewValidationFieldError("project_id", "project_id is required", errors.ErrCodeValidationFailed)
	}
	if err := validation.ValidateWorkLogDescription(dto.Description); err != nil {
		return err
	}
	if err := validation.ValidateWorkLogMinutes(dto.Minutes); err != nil {
		return err
	}
	return validation.ValidateWorkLogDate(dto.LogDate)
}

// UpdateWorkLogDTO carries a partial update; nil fields are untouched.
type UpdateWorkLogDTO struct {
	Description *string    `json:"description,omitempty"`
	Minutes     *int64     `json:"minutes,omitempty"`
	LogDate     *time.Time `json:"log_date,omitempty"`
}

func (dto UpdateWorkLogDTO) Validate() *errors.AppError {
	if dto.Description == nil && dto.Minutes == nil && dto.LogDate == nil {
		return errors.NewValidationError("no fields to update", errors.ErrCodeValidationFailed)
	}
	if dto.Description != nil {
		if err := validation.ValidateWorkLogDescription(*dto.Description); err != nil {
			return err
		}
	}
	if dto.Minutes != nil {
		if err := validation.ValidateWorkLogMinutes(*dto.Minutes); err != nil {
			return err
		}
	}
	if dto.LogDate != nil {
		if err := validation.ValidateWorkLogDate(*dto.LogDate); err != nil {
			return err
		}
	}
	return nil
}

// ListParams narrows a listing with business filters. They compose
// conjunctively with the scope predicate and can only shrink the result.
type ListParams struct {
	ProjectID int64
	From      time.Time
	To        time.Time
	Search    string
	Limit     int
	Offset    int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (p *ListParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

func (p ListParams) Validate() *errors.AppError {
	if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
		return errors.NewValidationFieldError("to", "to must not be before from", errors.ErrCodeInvalidDate)
	}
	return nil
}
