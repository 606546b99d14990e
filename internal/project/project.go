package project

import (
	"time"

	internal "github.com/ryz3006/alignzo/internal"
)

var (
	ErrProjectNotFound = internal.ErrProjectNotFound
	ErrAccessDenied    = internal.ErrAccessDenied
)

// Project is the listing view of a project.
type Project struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	OrganizationID int64     `json:"organization_id"`
	Status         string    `json:"status"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// Member is one roster entry of a project.
type Member struct {
	UserID   int64     `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProjectDetail is a project with its roster.
type ProjectDetail struct {
	Project
	Members []Member `json:"members"`
}
