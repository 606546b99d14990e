package worklog

import (
	"fmt"
	"log/slog"

	"github.com/ryz3006/alignzo/internal/authz"
)

// Engine is the slice of the authorization engine work logs need.
type Engine interface {
	BuildScopeFilter(userID int64, resource authz.ResourceType) (authz.Predicate, error)
	CanAccessUser(requesterID, targetUserID int64, action string) (bool, error)
}

// Repository defines the data access methods for work logs
type Repository interface {
	Create(w *WorkLog) error
	GetByID(id int64) (*WorkLog, error)
	List(pred authz.Predicate, params ListParams) ([]*WorkLog, int64, error)
	Update(w *WorkLog) error
	Delete(id int64) error
	ProjectInScope(pred authz.Predicate, projectID int64) (bool, error)
}

// Service handles work log business logic
type Service struct {
	repo   Repository
	engine Engine
	logger *slog.Logger
}

func NewService(repo Repository, engine Engine, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		logger: logger,
	}
}

// Create logs time for the requester against a project they can see.
func (s *Service) Create(requesterID int64, dto CreateWorkLogDTO) (*WorkLog, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("work log validation failed", "error", err, "user_id", requesterID)
		return nil, err
	}

	pred, err := s.engine.BuildScopeFilter(requesterID, authz.ResourceTypeProject)
	if err != nil {
		s.logger.Error("failed to build project scope filter", "user_id", requesterID, "error", err)
		return nil, fmt.Errorf("scope filter: %w", err)
	}

	visible, err := s.repo.ProjectInScope(pred, dto.ProjectID)
	if err != nil {
		s.logger.Error("project visibility lookup failed", "user_id", requesterID, "project_id", dto.ProjectID, "error", err)
		return nil, err
	}
	if !visible {
		s.logger.Warn("work log rejected: project out of scope",
			"user_id", requesterID,
			"project_id", dto.ProjectID)
		return nil, ErrAccessDenied
	}

	w := NewWorkLog(requesterID, dto)
	if err := s.repo.Create(w); err != nil {
		s.logger.Error("failed to create work log", "error", err, "user_id", requesterID)
		return nil, err
	}

	s.logger.Info("work log created",
		"work_log_id", w.ID,
		"user_id", requesterID,
		"project_id", w.ProjectID,
		"minutes", w.Minutes)

	return w, nil
}

// List returns the work logs visible to the requester, narrowed by the
// business filters.
func (s *Service) List(requesterID int64, params ListParams) ([]*WorkLog, int64, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}

	pred, err := s.engine.BuildScopeFilter(requesterID, authz.ResourceTypeWorkLog)
	if err != nil {
		s.logger.Error("failed to build work log scope filter", "user_id", requesterID, "error", err)
		return nil, 0, fmt.Errorf("scope filter: %w", err)
	}

	params.Normalize()

	logs, total, err := s.repo.List(pred, params)
	if err != nil {
		s.logger.Error("failed to list work logs", "user_id", requesterID, "error", err)
		return nil, 0, err
	}

	return logs, total, nil
}

// Get returns one work log, enforcing the pairwise accessibility check
// against its owner.
func (s *Service) Get(requesterID, id int64) (*WorkLog, error) {
	w, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.CanAccessUser(requesterID, w.UserID, authz.ActionRead)
	if err != nil {
		s.logger.Error("accessibility check failed", "requester_id", requesterID, "owner_id", w.UserID, "error", err)
		return nil, fmt.Errorf("accessibility check: %w", err)
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	return w, nil
}

// Update applies a partial update. Only the owner may modify an entry.
func (s *Service) Update(requesterID, id int64, dto UpdateWorkLogDTO) (*WorkLog, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	w, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if w.UserID != requesterID {
		s.logger.Warn("work log update denied: requester is not the owner",
			"work_log_id", id,
			"requester_id", requesterID,
			"owner_id", w.UserID)
		return nil, ErrAccessDenied
	}

	if dto.Description != nil {
		w.Description = *dto.Description
	}
	if dto.Minutes != nil {
		w.Minutes = *dto.Minutes
	}
	if dto.LogDate != nil {
		w.LogDate = *dto.LogDate
	}

	if err := s.repo.Update(w); err != nil {
		s.logger.Error("failed to update work log", "error", err, "work_log_id", id)
		return nil, err
	}

	return w, nil
}

// Delete removes an entry. Only the owner may delete it.
func (s *Service) Delete(requesterID, id int64) error {
	w, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if w.UserID != requesterID {
		s.logger.Warn("work log delete denied: requester is not the owner",
			"work_log_id", id,
			"requester_id", requesterID,
			"owner_id", w.UserID)
		return ErrAccessDenied
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete work log", "error", err, "work_log_id", id)
		return err
	}

	s.logger.Info("work log deleted", "work_log_id", id, "user_id", requesterID)
	return nil
}
