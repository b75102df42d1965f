package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/goalie/internal/models"
)

// activityWindow is how many of the most recent activity days analytics returns
const activityWindow = 365

// recordActivity adds one completion to the user's row for now's UTC date.
// A concurrent first insert for the same day turns into an increment.
func recordActivity(tx *gorm.DB, userID uuid.UUID, now time.Time) error {
	day := models.DayOf(now)

	res := tx.Model(&models.DailyActivity{}).
		Where("user_id = ? AND activity_date = ?", userID, day).
		UpdateColumn("tasks_completed", gorm.Expr("tasks_completed + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	row := models.DailyActivity{UserID: userID, Date: day, TasksCompleted: 1}
	return tx.Clauses(upsertActivity()).Create(&row).Error
}

// upsertActivity turns an insert that hits the (user, date) index into an increment
func upsertActivity() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "activity_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"tasks_completed": gorm.Expr("daily_activities.tasks_completed + 1"),
		}),
	}
}

type itemCounts struct {
	Total int
	Done  int
}

// GetAnalytics summarizes the user's goals and recent activity. All reads
// share one transaction so totals and activity rows agree.
func (s *GoalService) GetAnalytics(ctx context.Context, userID uuid.UUID) (*models.AnalyticsDTO, error) {
	var (
		totalGoals  int64
		tasks, subs itemCounts
		rows        []models.DailyActivity
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Goal{}).Where("user_id = ?", userID).Count(&totalGoals).Error; err != nil {
			return err
		}

		// Only the active collection of each goal counts
		err := tx.Model(&models.TaskItem{}).
			Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN task_items.completed THEN 1 ELSE 0 END), 0) AS done").
			Joins("JOIN months ON months.id = task_items.month_id").
			Joins("JOIN goals ON goals.id = months.goal_id").
			Where("goals.user_id = ? AND goals.type = ?", userID, models.GoalTypePlan).
			Scan(&tasks).Error
		if err != nil {
			return err
		}
		err = tx.Model(&models.SubGoal{}).
			Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN sub_goals.completed THEN 1 ELSE 0 END), 0) AS done").
			Joins("JOIN goals ON goals.id = sub_goals.goal_id").
			Where("goals.user_id = ? AND goals.type = ?", userID, models.GoalTypeSubGoals).
			Scan(&subs).Error
		if err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).
			Order("activity_date DESC").
			Limit(activityWindow).
			Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	activity := make([]models.DailyActivityDTO, 0, len(rows))
	for _, r := range rows {
		activity = append(activity, models.DailyActivityDTO{Date: r.Date, TasksCompleted: r.TasksCompleted})
	}

	return &models.AnalyticsDTO{
		Activity:       activity,
		TotalGoals:     int(totalGoals),
		CompletedTasks: tasks.Done + subs.Done,
		TotalTasks:     tasks.Total + subs.Total,
		CurrentStreak:  CurrentStreak(activity, s.now()),
	}, nil
}

// CurrentStreak counts consecutive active days ending today or yesterday.
// days must be sorted by date descending with one entry per date.
func CurrentStreak(days []models.DailyActivityDTO, now time.Time) int {
	y, m, d := now.UTC().Date()
	cursor := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	streak := 0
	for _, day := range days {
		date, err := time.Parse(models.DateLayout, day.Date)
		if err != nil {
			break
		}
		prev := cursor.AddDate(0, 0, -1)
		switch {
		case date.Equal(cursor) || date.Equal(prev):
			streak++
			cursor = date
		case date.Before(prev):
			return streak
		}
	}
	return streak
}
