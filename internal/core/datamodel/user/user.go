package user

import "time"

type User struct {
	ID             int64     `gorm:"primaryKey"`
	Email          string    `gorm:"column:email;uniqueIndex;not null"`
	Name           string    `gorm:"column:name;not null"`
	PasswordHash   string    `gorm:"column:password_hash;not null"`
	OrganizationID *int64    `gorm:"column:organization_id"`
	ManagerID      *int64    `gorm:"column:manager_id"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
