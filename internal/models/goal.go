package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalType tags which child collection of a goal is active
type GoalType string

const (
	GoalTypePlan     GoalType = "plan"     // months holding tasks
	GoalTypeSubGoals GoalType = "subgoals" // flat checklist
)

// ParseGoalType resolves "plan" case-insensitively; anything else is subgoals
func ParseGoalType(s string) GoalType {
	if strings.ToLower(strings.TrimSpace(s)) == string(GoalTypePlan) {
		return GoalTypePlan
	}
	return GoalTypeSubGoals
}

// Goal is a yearly objective owned by a user
type Goal struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"size:1000" json:"description"`
	Type        GoalType  `gorm:"size:16;not null" json:"type"`
	Year        int       `gorm:"not null" json:"year"`
	CreatedAt   time.Time `json:"created_at"`

	// Only the collection matching Type is loaded and returned
	Months   []Month   `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE;" json:"months,omitempty"`
	SubGoals []SubGoal `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE;" json:"sub_goals,omitempty"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Month groups the tasks of a plan goal
type Month struct {
	ID     uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	GoalID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_months_goal_name" json:"goal_id"`
	Name   string    `gorm:"size:50;not null;uniqueIndex:idx_months_goal_name" json:"name"`
	Order  int       `gorm:"column:sort_order;not null;default:0" json:"order"`

	Tasks []TaskItem `gorm:"foreignKey:MonthID;constraint:OnDelete:CASCADE;" json:"tasks"`
}

func (m *Month) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TaskItem is a checkable entry inside a month
type TaskItem struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	MonthID     uuid.UUID  `gorm:"type:varchar(36);index;not null" json:"month_id"`
	Text        string     `gorm:"size:500;not null" json:"text"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"` // non-nil exactly when Completed
	CreatedAt   time.Time  `json:"created_at"`
}

func (t *TaskItem) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// SubGoal is a checkable entry of a subgoals goal
type SubGoal struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	GoalID      uuid.UUID  `gorm:"type:varchar(36);index;not null" json:"goal_id"`
	Text        string     `gorm:"size:500;not null" json:"text"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (s *SubGoal) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
