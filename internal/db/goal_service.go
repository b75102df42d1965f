package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balkashynov/goalie/internal/models"
)

// GoalService manages the goal graph of a user. Every lookup is scoped by
// the full ownership chain in a single query.
type GoalService struct {
	db  *gorm.DB
	now func() time.Time
}

type Option func(*GoalService)

// WithClock overrides the clock used for timestamps and "today"
func WithClock(now func() time.Time) Option {
	return func(s *GoalService) { s.now = now }
}

func NewGoalService(db *gorm.DB, opts ...Option) *GoalService {
	s := &GoalService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGoalInput holds the data needed to create a new goal
type CreateGoalInput struct {
	Title       string
	Description *string
	Type        string // "plan" (any case) or anything else for subgoals
	Year        *int   // current UTC year when nil
}

// UpdateGoalInput changes the editable fields of a goal
type UpdateGoalInput struct {
	Title       string
	Description *string
}

// withGraph preloads both child collections in display order
func withGraph(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Months", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, name ASC") }).
		Preload("Months.Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("SubGoals", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
}

// ListGoals returns the user's goals, newest year first
func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]models.GoalDTO, error) {
	var goals []models.Goal
	err := withGraph(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("year DESC, created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}

	dtos := make([]models.GoalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, g.ToDTO())
	}
	return dtos, nil
}

// GetGoal returns one goal owned by the user
func (s *GoalService) GetGoal(ctx context.Context, goalID, userID uuid.UUID) (*models.GoalDTO, error) {
	goal, err := s.loadGoal(s.db.WithContext(ctx), goalID, userID)
	if err != nil {
		return nil, err
	}
	dto := goal.ToDTO()
	return &dto, nil
}

func (s *GoalService) loadGoal(tx *gorm.DB, goalID, userID uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := withGraph(tx).Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// CreateGoal creates a goal with an empty active collection
func (s *GoalService) CreateGoal(ctx context.Context, userID uuid.UUID, in CreateGoalInput) (*models.GoalDTO, error) {
	year := s.now().UTC().Year()
	if in.Year != nil {
		year = *in.Year
	}

	goal := models.Goal{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Type:        models.ParseGoalType(in.Type),
		Year:        year,
	}
	if err := s.db.WithContext(ctx).Create(&goal).Error; err != nil {
		return nil, err
	}

	dto := goal.ToDTO()
	return &dto, nil
}

// UpdateGoal changes title and description; type and year are fixed at creation
func (s *GoalService) UpdateGoal(ctx context.Context, goalID, userID uuid.UUID, in UpdateGoalInput) (*models.GoalDTO, error) {
	var goal *models.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Goal{}).
			Where("id = ? AND user_id = ?", goalID, userID).
			Updates(map[string]interface{}{
				"title":       strings.TrimSpace(in.Title),
				"description": in.Description,
			}).Error
		if err != nil {
			return err
		}
		// Some drivers report zero affected rows for a no-op update, so
		// existence is decided by the scoped reload.
		goal, err = s.loadGoal(tx, goalID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	dto := goal.ToDTO()
	return &dto, nil
}

// DeleteGoal removes a goal with its months, tasks and subgoals
func (s *GoalService) DeleteGoal(ctx context.Context, goalID, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.Goal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
	}
	return nil
}

// AddMonth adds a month to a plan goal. Month names are unique per goal.
func (s *GoalService) AddMonth(ctx context.Context, goalID, userID uuid.UUID, name string, order int) (*models.MonthDTO, error) {
	name = strings.TrimSpace(name)
	month := models.Month{GoalID: goalID, Name: name, Order: order}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var goal models.Goal
		err := tx.Select("id", "type").Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("goal %s: %w", goalID, ErrRejected)
		}
		if err != nil {
			return err
		}
		if goal.Type != models.GoalTypePlan {
			return fmt.Errorf("goal %s is not a plan: %w", goalID, ErrRejected)
		}

		var count int64
		if err := tx.Model(&models.Month{}).Where("goal_id = ? AND name = ?", goalID, name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("month %q already exists: %w: %w", name, ErrRejected, ErrConflict)
		}

		if err := tx.Create(&month).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("month %q already exists: %w: %w", name, ErrRejected, ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := month.ToDTO()
	return &dto, nil
}

// DeleteMonth removes a month and its tasks
func (s *GoalService) DeleteMonth(ctx context.Context, goalID, monthID, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND goal_id IN ("+ownedGoal+")", monthID, goalID, userID).
		Delete(&models.Month{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("month %s: %w", monthID, ErrNotFound)
	}
	return nil
}

// AddTask appends an incomplete task to a month of the user's goal
func (s *GoalService) AddTask(ctx context.Context, goalID, monthID, userID uuid.UUID, text string) (*models.TaskDTO, error) {
	task := models.TaskItem{MonthID: monthID, Text: strings.TrimSpace(text)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Month{}).
			Where("id = ? AND id IN ("+ownedMonths+")", monthID, goalID, userID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("month %s: %w", monthID, ErrRejected)
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}

	dto := task.ToDTO()
	return &dto, nil
}

// ToggleTask flips a task's completion. Completing it records one unit of
// activity for today in the same transaction.
func (s *GoalService) ToggleTask(ctx context.Context, goalID, taskID, userID uuid.UUID) (*models.TaskDTO, error) {
	now := s.now().UTC()
	var task models.TaskItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := toggle(tx, &models.TaskItem{}, "id = ? AND month_id IN ("+ownedMonths+")", taskID, goalID, userID)
		if err != nil {
			return fmt.Errorf("task %s: %w", taskID, err)
		}
		if err := tx.Where("id = ?", taskID).First(&task).Error; err != nil {
			return err
		}

		task.CompletedAt = completedAt(task.Completed, now)
		if err := tx.Model(&models.TaskItem{}).Where("id = ?", taskID).UpdateColumn("completed_at", task.CompletedAt).Error; err != nil {
			return err
		}
		if task.Completed {
			return recordActivity(tx, userID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := task.ToDTO()
	return &dto, nil
}

// DeleteTask removes a task when task, month, goal and owner all match
func (s *GoalService) DeleteTask(ctx context.Context, goalID, monthID, taskID, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND month_id = ? AND month_id IN ("+ownedMonths+")", taskID, monthID, goalID, userID).
		Delete(&models.TaskItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return nil
}

// AddSubGoal appends an incomplete subgoal to a subgoals goal
func (s *GoalService) AddSubGoal(ctx context.Context, goalID, userID uuid.UUID, text string) (*models.SubGoalDTO, error) {
	sub := models.SubGoal{GoalID: goalID, Text: strings.TrimSpace(text)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Goal{}).
			Where("id = ? AND user_id = ? AND type = ?", goalID, userID, models.GoalTypeSubGoals).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("goal %s does not take subgoals: %w", goalID, ErrRejected)
		}
		return tx.Create(&sub).Error
	})
	if err != nil {
		return nil, err
	}

	dto := sub.ToDTO()
	return &dto, nil
}

// ToggleSubGoal flips a subgoal's completion, recording activity on completion
func (s *GoalService) ToggleSubGoal(ctx context.Context, goalID, subGoalID, userID uuid.UUID) (*models.SubGoalDTO, error) {
	now := s.now().UTC()
	var sub models.SubGoal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := toggle(tx, &models.SubGoal{}, "id = ? AND goal_id IN ("+ownedGoal+")", subGoalID, goalID, userID)
		if err != nil {
			return fmt.Errorf("subgoal %s: %w", subGoalID, err)
		}
		if err := tx.Where("id = ?", subGoalID).First(&sub).Error; err != nil {
			return err
		}

		sub.CompletedAt = completedAt(sub.Completed, now)
		if err := tx.Model(&models.SubGoal{}).Where("id = ?", subGoalID).UpdateColumn("completed_at", sub.CompletedAt).Error; err != nil {
			return err
		}
		if sub.Completed {
			return recordActivity(tx, userID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := sub.ToDTO()
	return &dto, nil
}

// DeleteSubGoal removes a subgoal of the user's goal
func (s *GoalService) DeleteSubGoal(ctx context.Context, goalID, subGoalID, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND goal_id IN ("+ownedGoal+")", subGoalID, goalID, userID).
		Delete(&models.SubGoal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("subgoal %s: %w", subGoalID, ErrNotFound)
	}
	return nil
}

// Ownership subqueries, parameterized by (goalID, userID)
const (
	ownedGoal   = "SELECT id FROM goals WHERE id = ? AND user_id = ?"
	ownedMonths = "SELECT months.id FROM months JOIN goals ON goals.id = months.goal_id WHERE months.goal_id = ? AND goals.user_id = ?"
)

// toggle flips the completed flag of the single row matched by where. The
// flip happens before any read so concurrent togglers serialize on the row.
func toggle(tx *gorm.DB, model interface{}, where string, args ...interface{}) error {
	res := tx.Model(model).Where(where, args...).UpdateColumn("completed", gorm.Expr("NOT completed"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func completedAt(completed bool, now time.Time) *time.Time {
	if !completed {
		return nil
	}
	return &now
}
