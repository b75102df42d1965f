package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that owns goals and daily activity rows
type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"` // stored lower-cased
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships, declared for the cascading foreign keys only
	Goals           []Goal          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	DailyActivities []DailyActivity `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
