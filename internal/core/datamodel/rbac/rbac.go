package rbac

import "time"

// Permission is identified by (resource, action); the pair is unique.
type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Resource    string    `gorm:"column:resource;not null;uniqueIndex:idx_resource_action"`
	Action      string    `gorm:"column:action;not null;uniqueIndex:idx_resource_action"`
	DisplayName string    `gorm:"column:display_name"`
	Description string    `gorm:"column:description"`
	IsSystem    bool      `gorm:"column:is_system;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (Permission) TableName() string {
	return "permissions"
}

type Role struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	DisplayName string    `gorm:"column:display_name"`
	IsSystem    bool      `gorm:"column:is_system;default:false"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Role) TableName() string {
	return "roles"
}

type RolePermission struct {
	ID           int64     `gorm:"primaryKey"`
	RoleID       int64     `gorm:"column:role_id;not null;uniqueIndex:idx_role_permission"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_role_permission"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type UserRole struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_role"`
	RoleID    int64     `gorm:"column:role_id;not null;uniqueIndex:idx_user_role"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	GrantedBy *int64    `gorm:"column:granted_by"`
	GrantedAt time.Time `gorm:"column:granted_at;default:now()"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// UserPermission is a direct grant, checked as an alternative path to
// role-derived permissions.
type UserPermission struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_permission"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_user_permission"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}

// UserAccessLevel holds one visibility tag per row; a user may hold several.
type UserAccessLevel struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_level"`
	Level     string    `gorm:"column:level;not null;uniqueIndex:idx_user_level"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (UserAccessLevel) TableName() string {
	return "user_access_levels"
}
