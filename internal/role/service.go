package role

import (
	"log/slog"
	"strings"

	errors "github.com/ryz3006/alignzo/internal"
)

// Repository defines the data access methods for role administration
type Repository interface {
	ListRoles() ([]*Role, error)
	GetRole(id int64) (*RoleDetail, error)
	CreateRole(r *Role, permissionKeys []string) error
	UpdateRole(r *Role, permissionKeys *[]string) error
	DeleteRole(id int64) error

	ListPermissions() ([]*Permission, error)
	MissingPermissionKeys(keys []string) ([]string, error)

	ListUserRoles(userID int64) ([]*Grant, error)
	AssignRole(userID, roleID int64, grantedBy int64) error
	RevokeRole(userID, roleID int64) error

	UserExists(userID int64) (bool, error)
	ReplaceAccessLevels(userID int64, levels []string) error
}

// Service handles role administration logic
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListRoles returns every role, system ones included.
func (s *Service) ListRoles() ([]*Role, error) {
	roles, err := s.repo.ListRoles()
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, err
	}
	return roles, nil
}

// GetRole returns one role with its permission keys.
func (s *Service) GetRole(id int64) (*RoleDetail, error) {
	return s.repo.GetRole(id)
}

// CreateRole creates a non-system role carrying the named permissions.
// Every key must already exist in the catalog.
func (s *Service) CreateRole(dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkCatalogKeys(dto.Permissions); err != nil {
		return nil, err
	}

	r := &Role{
		Name:        strings.TrimSpace(dto.Name),
		DisplayName: dto.DisplayName,
		IsSystem:    false,
		IsActive:    true,
	}

	if err := s.repo.CreateRole(r, dto.Permissions); err != nil {
		s.logger.Error("failed to create role", "name", r.Name, "error", err)
		return nil, err
	}

	s.logger.Info("role created", "role_id", r.ID, "name", r.Name, "permissions", len(dto.Permissions))
	return r, nil
}

// UpdateRole applies a partial update. System roles are immutable.
func (s *Service) UpdateRole(id int64, dto UpdateRoleDTO) (*RoleDetail, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	detail, err := s.repo.GetRole(id)
	if err != nil {
		return nil, err
	}

	if detail.IsSystem {
		s.logger.Warn("update rejected for system role", "role_id", id, "name", detail.Name)
		return nil, ErrSystemRoleProtected
	}

	if dto.Permissions != nil {
		if err := s.checkCatalogKeys(*dto.Permissions); err != nil {
			return nil, err
		}
	}

	if dto.DisplayName != nil {
		detail.DisplayName = *dto.DisplayName
	}
	if dto.IsActive != nil {
		detail.IsActive = *dto.IsActive
	}

	if err := s.repo.UpdateRole(&detail.Role, dto.Permissions); err != nil {
		s.logger.Error("failed to update role", "role_id", id, "error", err)
		return nil, err
	}

	return s.repo.GetRole(id)
}

// DeleteRole removes a non-system role and its grants.
func (s *Service) DeleteRole(id int64) error {
	detail, err := s.repo.GetRole(id)
	if err != nil {
		return err
	}

	if detail.IsSystem {
		s.logger.Warn("delete rejected for system role", "role_id", id, "name", detail.Name)
		return ErrSystemRoleProtected
	}

	if err := s.repo.DeleteRole(id); err != nil {
		s.logger.Error("failed to delete role", "role_id", id, "error", err)
		return err
	}

	s.logger.Info("role deleted", "role_id", id, "name", detail.Name)
	return nil
}

// ListPermissionCatalog returns the whole permission catalog.
func (s *Service) ListPermissionCatalog() ([]*Permission, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		s.logger.Error("failed to list permission catalog", "error", err)
		return nil, err
	}
	return perms, nil
}

// ListUserRoles returns a user's active role grants.
func (s *Service) ListUserRoles(userID int64) ([]*Grant, error) {
	if err := s.checkUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListUserRoles(userID)
}

// AssignRole grants a role to a user.
func (s *Service) AssignRole(userID int64, dto AssignRoleDTO, grantedBy int64) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if err := s.checkUser(userID); err != nil {
		return err
	}

	if _, err := s.repo.GetRole(dto.RoleID); err != nil {
		return err
	}

	if err := s.repo.AssignRole(userID, dto.RoleID, grantedBy); err != nil {
		s.logger.Error("failed to assign role", "user_id", userID, "role_id", dto.RoleID, "error", err)
		return err
	}

	s.logger.Info("role assigned", "user_id", userID, "role_id", dto.RoleID, "granted_by", grantedBy)
	return nil
}

// RevokeRole deactivates a user's role grant.
func (s *Service) RevokeRole(userID, roleID int64) error {
	if err := s.checkUser(userID); err != nil {
		return err
	}

	if err := s.repo.RevokeRole(userID, roleID); err != nil {
		s.logger.Error("failed to revoke role", "user_id", userID, "role_id", roleID, "error", err)
		return err
	}

	s.logger.Info("role revoked", "user_id", userID, "role_id", roleID)
	return nil
}

// UpdateAccessLevels replaces the user's stored access-level set.
func (s *Service) UpdateAccessLevels(userID int64, dto UpdateAccessLevelsDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if err := s.checkUser(userID); err != nil {
		return err
	}

	if err := s.repo.ReplaceAccessLevels(userID, dto.Levels); err != nil {
		s.logger.Error("failed to replace access levels", "user_id", userID, "error", err)
		return err
	}

	s.logger.Info("access levels replaced", "user_id", userID, "levels", dto.Levels)
	return nil
}

func (s *Service) checkUser(userID int64) error {
	exists, err := s.repo.UserExists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func (s *Service) checkCatalogKeys(keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	missing, err := s.repo.MissingPermissionKeys(keys)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errors.NewValidationError(
			"unknown permission keys: "+strings.Join(missing, ", "),
			errors.ErrCodeValidationFailed)
	}
	return nil
}
