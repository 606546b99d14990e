package worklog

import "time"

// WorkLog has no organization column of its own; tenancy is derived through
// the owning project.
type WorkLog struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null"`
	ProjectID   int64     `gorm:"column:project_id;not null"`
	Description string    `gorm:"column:description;not null"`
	Minutes     int64     `gorm:"column:minutes;not null"`
	LogDate     time.Time `gorm:"column:log_date;type:date"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkLog) TableName() string {
	return "work_logs"
}
