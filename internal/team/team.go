package team

import (
	"time"

	internal "github.com/ryz3006/alignzo/internal"
)

var (
	ErrTeamNotFound = internal.ErrTeamNotFound
	ErrAccessDenied = internal.ErrAccessDenied
)

// Team is the listing view of a team.
type Team struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	OrganizationID int64     `json:"organization_id"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// Member is one roster entry of a team.
type Member struct {
	UserID   int64     `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// TeamDetail is a team with its roster.
type TeamDetail struct {
	Team
	Members []Member `json:"members"`
}
