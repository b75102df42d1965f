package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the calendar date format used for DailyActivity.Date
const DateLayout = "2006-01-02"

// DailyActivity counts completions for one user on one UTC calendar day
type DailyActivity struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_activity_user_date" json:"user_id"`
	Date           string    `gorm:"column:activity_date;type:varchar(10);not null;uniqueIndex:idx_activity_user_date" json:"date"` // YYYY-MM-DD
	TasksCompleted int       `gorm:"not null;default:0" json:"tasks_completed"`
}

func (a *DailyActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// DayOf returns the UTC calendar date of t in DateLayout
func DayOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
