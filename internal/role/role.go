package role

import (
	"time"

	internal "github.com/ryz3006/alignzo/internal"
)

var (
	ErrRoleNotFound              = internal.ErrRoleNotFound
	ErrUserNotFound              = internal.ErrUserNotFound
	ErrSystemRoleProtected       = internal.ErrSystemRoleProtected
	ErrSystemPermissionProtected = internal.ErrSystemPermissionProtected
)

// Role is the listing view of a role.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name,omitempty"`
	IsSystem    bool      `json:"is_system"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleDetail is a role with the permission keys it carries.
type RoleDetail struct {
	Role
	Permissions []string `json:"permissions"`
}

// Permission is one catalog entry. Key is "resource.action".
type Permission struct {
	ID          int64  `json:"id"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Key         string `json:"key"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
	IsSystem    bool   `json:"is_system"`
}

// Grant is one active role assignment of a user.
type Grant struct {
	RoleID    int64     `json:"role_id"`
	RoleName  string    `json:"role_name"`
	GrantedBy *int64    `json:"granted_by,omitempty"`
	GrantedAt time.Time `json:"granted_at"`
}
