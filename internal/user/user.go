package user

import (
	"time"

	internal "github.com/ryz3006/alignzo/internal"
)

var (
	ErrUserNotFound = internal.ErrUserNotFound
	ErrAccessDenied = internal.ErrAccessDenied
)

// User is the directory view of an account. The password hash never
// leaves the repository.
type User struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	ManagerID      *int64    `json:"manager_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// SearchParams narrows and pages a directory listing. Search matches
// name or email, case-insensitively.
type SearchParams struct {
	Search string
	Limit  int
	Offset int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps paging to sane bounds.
func (p *SearchParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
