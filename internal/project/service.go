package project

import (
	"fmt"
	"log/slog"

	"github.com/ryz3006/alignzo/internal/authz"
)

// Engine builds scope predicates for project visibility.
type Engine interface {
	BuildScopeFilter(userID int64, resource authz.ResourceType) (authz.Predicate, error)
}

// ListParams narrows the project listing; both filters are optional.
type ListParams struct {
	Search string
	Status string
}

// Repository defines the data access methods for projects
type Repository interface {
	List(pred authz.Predicate, params ListParams) ([]*Project, error)
	GetByID(pred authz.Predicate, id int64) (*ProjectDetail, error)
}

// Service handles project listing logic
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

// List returns the projects the requester can see, optionally filtered
// by name and status.
func (s *Service) List(requesterID int64, params ListParams) ([]*Project, error) {
	pred, err := s.engine.BuildScopeFilter(requesterID, authz.ResourceTypeProject)
	if err != nil {
		s.logger.Error("failed to build project scope filter", "requester_id", requesterID, "error", err)
		return nil, fmt.Errorf("scope filter: %w", err)
	}

	projects, err := s.repo.List(pred, params)
	if err != nil {
		s.logger.Error("failed to list projects", "requester_id", requesterID, "error", err)
		return nil, err
	}

	return projects, nil
}

// Get returns one project with its roster. Out-of-scope projects read
// as not found.
func (s *Service) Get(requesterID, projectID int64) (*ProjectDetail, error) {
	pred, err := s.engine.BuildScopeFilter(requesterID, authz.ResourceTypeProject)
	if err != nil {
		s.logger.Error("failed to build project scope filter", "requester_id", requesterID, "error", err)
		return nil, fmt.Errorf("scope filter: %w", err)
	}

	detail, err := s.repo.GetByID(pred, projectID)
	if err != nil {
		return nil, err
	}

	return detail, nil
}
