package team

import (
	"fmt"
	"log/slog"

	"github.com/ryz3006/alignzo/internal/authz"
)

// Engine builds scope predicates for team visibility.
type Engine interface {
	BuildScopeFilter(userID int64, resource authz.ResourceType) (authz.Predicate, error)
}

// Repository defines the data access methods for teams
type Repository interface {
	List(pred authz.Predicate, search string) ([]*Team, error)
	GetByID(pred authz.Predicate, id int64) (*TeamDetail, error)
}

// Service handles team listing logic
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

// List returns the teams the requester can see, optionally name-filtered.
func (s *Service) List(requesterID int64, search string) ([]*Team, error) {
	pred, err := s.engine.BuildScopeFilter(requesterID, authz.ResourceTypeTeam)
	if err != nil {
		s.logger.Error("failed to build team scope filter", "requester_id", requesterID, "error", err)
		return nil, fmt.Errorf("scope filter: %w", err)
	}

	teams, err := s.repo.List(pred, search)
	if err != nil {
		s.logger.Error("failed to list teams", "requester_id", requesterID, "error", err)
		return nil, err
	}

	return teams, nil
}

// Get returns one team with its roster. The scope predicate is part of
// the lookup, so an out-of-scope team reads as not found rather than
// leaking its existence.
func (s *Service) Get(requesterID, teamID int64) (*TeamDetail, error) {
	pred, err := s.engine.BuildScopeFilter(requesterID, authz.ResourceTypeTeam)
	if err != nil {
		s.logger.Error("failed to build team scope filter", "requester_id", requesterID, "error", err)
		return nil, fmt.Errorf("scope filter: %w", err)
	}

	detail, err := s.repo.GetByID(pred, teamID)
	if err != nil {
		return nil, err
	}

	return detail, nil
}
