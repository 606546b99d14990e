package org

import "time"

type Organization struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Organization) TableName() string {
	return "organizations"
}

type Team struct {
	ID             int64     `gorm:"primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	OrganizationID int64     `gorm:"column:organization_id;not null"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()"`
}

func (Team) TableName() string {
	return "teams"
}

type Project struct {
	ID             int64     `gorm:"primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	OrganizationID int64     `gorm:"column:organization_id;not null"`
	Status         string    `gorm:"column:status;default:active"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()"`
}

func (Project) TableName() string {
	return "projects"
}

// TeamMember and ProjectMember carry a role string (e.g. "lead", "member")
// in addition to the active flag; authorization only looks at the flag.
type TeamMember struct {
	ID        int64     `gorm:"primaryKey"`
	TeamID    int64     `gorm:"column:team_id;not null;uniqueIndex:idx_team_user"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_team_user"`
	Role      string    `gorm:"column:role;default:member"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

type ProjectMember struct {
	ID        int64     `gorm:"primaryKey"`
	ProjectID int64     `gorm:"column:project_id;not null;uniqueIndex:idx_project_user"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_project_user"`
	Role      string    `gorm:"column:role;default:member"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
