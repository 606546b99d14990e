package user

import (
	"fmt"
	"log/slog"

	"github.com/ryz3006/alignzo/internal/authz"
)

// Engine is the slice of the authorization engine the directory needs:
// scope predicates for listings and pairwise checks for detail reads.
type Engine interface {
	BuildScopeFilter(userID int64, resource authz.ResourceType) (authz.Predicate, error)
	CanAccessUser(requesterID, targetUserID int64, action string) (bool, error)
	ListPermissions(userID int64) ([]string, error)
}

// Repository defines the data access methods for the user directory
type Repository interface {
	List(pred authz.Predicate, params SearchParams) ([]*User, int64, error)
	GetByID(id int64) (*User, error)
}

// Service handles user directory logic
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

// List returns the directory entries visible to the requester, narrowed
// by search and paging. Visibility comes entirely from the scope
// predicate; an unscoped caller sees nothing.
func (s *Service) List(requesterID int64, params SearchParams) ([]*User, int64, error) {
	pred, err := s.engine.BuildScopeFilter(requesterID, authz.ResourceTypeUser)
	if err != nil {
		s.logger.Error("failed to build user scope filter", "requester_id", requesterID, "error", err)
		return nil, 0, fmt.Errorf("scope filter: %w", err)
	}

	params.Normalize()

	users, total, err := s.repo.List(pred, params)
	if err != nil {
		s.logger.Error("failed to list users", "requester_id", requesterID, "error", err)
		return nil, 0, err
	}

	return users, total, nil
}

// Get returns a single directory entry, enforcing the pairwise
// accessibility check.
func (s *Service) Get(requesterID, targetID int64) (*User, error) {
	allowed, err := s.engine.CanAccessUser(requesterID, targetID, authz.ActionRead)
	if err != nil {
		s.logger.Error("accessibility check failed", "requester_id", requesterID, "target_id", targetID, "error", err)
		return nil, fmt.Errorf("accessibility check: %w", err)
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	u, err := s.repo.GetByID(targetID)
	if err != nil {
		return nil, err
	}

	return u, nil
}

// GetSelf returns the requester's own entry without an accessibility
// check. Self-access always holds.
func (s *Service) GetSelf(requesterID int64) (*User, error) {
	return s.repo.GetByID(requesterID)
}

// Permissions returns the requester's effective permission keys.
func (s *Service) Permissions(requesterID int64) ([]string, error) {
	perms, err := s.engine.ListPermissions(requesterID)
	if err != nil {
		s.logger.Error("failed to resolve permissions", "requester_id", requesterID, "error", err)
		return nil, err
	}
	return perms, nil
}
