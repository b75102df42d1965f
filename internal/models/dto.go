package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDTO is the public view of a user
type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// GoalDTO exposes exactly one of Months or SubGoals depending on Type;
// the inactive one is nil and serializes as null.
type GoalDTO struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Type        GoalType     `json:"type"`
	Year        int          `json:"year"`
	CreatedAt   time.Time    `json:"createdAt"`
	Months      []MonthDTO   `json:"months"`
	SubGoals    []SubGoalDTO `json:"subGoals"`
	Progress    int          `json:"progress"`
}

type MonthDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Order int       `json:"order"`
	Tasks []TaskDTO `json:"tasks"`
}

type TaskDTO struct {
	ID          uuid.UUID  `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

type SubGoalDTO struct {
	ID          uuid.UUID  `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

type DailyActivityDTO struct {
	Date           string `json:"date"`
	TasksCompleted int    `json:"tasksCompleted"`
}

// AnalyticsDTO aggregates a user's goals and recent activity
type AnalyticsDTO struct {
	Activity       []DailyActivityDTO `json:"activity"`
	TotalGoals     int                `json:"totalGoals"`
	CompletedTasks int                `json:"completedTasks"`
	TotalTasks     int                `json:"totalTasks"`
	CurrentStreak  int                `json:"currentStreak"`
}

func (u User) ToDTO() UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

func (t TaskItem) ToDTO() TaskDTO {
	return TaskDTO{ID: t.ID, Text: t.Text, Completed: t.Completed, CompletedAt: t.CompletedAt}
}

func (s SubGoal) ToDTO() SubGoalDTO {
	return SubGoalDTO{ID: s.ID, Text: s.Text, Completed: s.Completed, CompletedAt: s.CompletedAt}
}

func (m Month) ToDTO() MonthDTO {
	tasks := make([]TaskDTO, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		tasks = append(tasks, t.ToDTO())
	}
	return MonthDTO{ID: m.ID, Name: m.Name, Order: m.Order, Tasks: tasks}
}

// ToDTO maps a goal with its active collection loaded. Months are expected
// to be already sorted by Order.
func (g Goal) ToDTO() GoalDTO {
	dto := GoalDTO{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Type:        g.Type,
		Year:        g.Year,
		CreatedAt:   g.CreatedAt,
		Progress:    g.Progress(),
	}

	switch g.Type {
	case GoalTypePlan:
		dto.Months = make([]MonthDTO, 0, len(g.Months))
		for _, m := range g.Months {
			dto.Months = append(dto.Months, m.ToDTO())
		}
	default:
		dto.SubGoals = make([]SubGoalDTO, 0, len(g.SubGoals))
		for _, s := range g.SubGoals {
			dto.SubGoals = append(dto.SubGoals, s.ToDTO())
		}
	}

	return dto
}

// Progress is the rounded-half-up percentage of completed items in the
// active collection, 0 when it is empty.
func (g Goal) Progress() int {
	var done, total int
	switch g.Type {
	case GoalTypePlan:
		for _, m := range g.Months {
			for _, t := range m.Tasks {
				total++
				if t.Completed {
					done++
				}
			}
		}
	default:
		for _, s := range g.SubGoals {
			total++
			if s.Completed {
				done++
			}
		}
	}
	return Percent(done, total)
}

// Percent rounds 100*done/total half up using integer math
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*done + total) / (2 * total)
}
