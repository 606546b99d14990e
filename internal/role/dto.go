package role

import (
	"fmt"
	"strings"

	errors "github.com/ryz3006/alignzo/internal"
	"github.com/ryz3006/alignzo/internal/authz"
)

// CreateRoleDTO is the request payload for creating a role.
type CreateRoleDTO struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func (dto CreateRoleDTO) Validate() *errors.AppError {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return errors.NewValidationFieldError("name", "name is required", errors.ErrCodeValidationFailed)
	}
	if len(name) > 100 {
		return errors.NewValidationFieldError("name", "name must not exceed 100 characters", errors.ErrCodeValidationFailed)
	}
	for _, key := range dto.Permissions {
		if !strings.Contains(key, ".") {
			return errors.NewValidationFieldError("permissions",
				fmt.Sprintf("invalid permission key %q, expected resource.action", key),
				errors.ErrCodeValidationFailed)
		}
	}
	return nil
}

// UpdateRoleDTO carries a partial role update; nil fields are untouched.
type UpdateRoleDTO struct {
	DisplayName *string   `json:"display_name,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
}

func (dto UpdateRoleDTO) Validate() *errors.AppError {
	if dto.DisplayName == nil && dto.IsActive == nil && dto.Permissions == nil {
		return errors.NewValidationError("no fields to update", errors.ErrCodeValidationFailed)
	}
	if dto.Permissions != nil {
		for _, key := range *dto.Permissions {
			if !strings.Contains(key, ".") {
				return errors.NewValidationFieldError("permissions",
					fmt.Sprintf("invalid permission key %q, expected resource.action", key),
					errors.ErrCodeValidationFailed)
			}
		}
	}
	return nil
}

// AssignRoleDTO names the role to grant.
type AssignRoleDTO struct {
	RoleID int64 `json:"role_id"`
}

func (dto AssignRoleDTO) Validate() *errors.AppError {
	if dto.RoleID <= 0 {
		return errors.NewValidationFieldError("role_id", "role_id is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateAccessLevelsDTO replaces a user's stored access-level set.
type UpdateAccessLevelsDTO struct {
	Levels []string `json:"levels"`
}

var knownLevels = map[string]bool{
	authz.LevelIndividual:   true,
	authz.LevelTeam:         true,
	authz.LevelProject:      true,
	authz.LevelFullAccess:   true,
	authz.LevelOrganization: true,
}

func (dto UpdateAccessLevelsDTO) Validate() *errors.AppError {
	for _, level := range dto.Levels {
		if !knownLevels[level] {
			return errors.NewValidationFieldError("levels",
				fmt.Sprintf("unknown access level %q", level),
				errors.ErrCodeInvalidAccessLvl)
		}
	}
	return nil
}
