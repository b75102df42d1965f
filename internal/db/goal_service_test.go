package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/balkashynov/goalie/internal/models"
)

func intPtr(n int) *int { return &n }

func (f *fixture) createGoal(t *testing.T, userID uuid.UUID, title, typ string) *models.GoalDTO {
	t.Helper()
	g, err := f.goals.CreateGoal(context.Background(), userID, CreateGoalInput{Title: title, Type: typ})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	return g
}

func (f *fixture) addMonth(t *testing.T, goalID, userID uuid.UUID, name string, order int) *models.MonthDTO {
	t.Helper()
	m, err := f.goals.AddMonth(context.Background(), goalID, userID, name, order)
	if err != nil {
		t.Fatalf("AddMonth(%s): %v", name, err)
	}
	return m
}

func (f *fixture) addTask(t *testing.T, goalID, monthID, userID uuid.UUID, text string) *models.TaskDTO {
	t.Helper()
	task, err := f.goals.AddTask(context.Background(), goalID, monthID, userID, text)
	if err != nil {
		t.Fatalf("AddTask(%s): %v", text, err)
	}
	return task
}

func TestCreateGoalDefaults(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()

	plan, err := f.goals.CreateGoal(ctx, u.ID, CreateGoalInput{Title: " Run ", Type: "PLAN"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if plan.Type != models.GoalTypePlan || plan.Year != fixedNow.Year() || plan.Title != "Run" {
		t.Fatalf("plan = %+v", plan)
	}
	if plan.Months == nil || plan.SubGoals != nil || plan.Progress != 0 {
		t.Fatalf("plan collections = %v / %v", plan.Months, plan.SubGoals)
	}

	desc := "books"
	sub, err := f.goals.CreateGoal(ctx, u.ID, CreateGoalInput{Title: "Read", Description: &desc, Type: "whatever", Year: intPtr(2030)})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if sub.Type != models.GoalTypeSubGoals || sub.Year != 2030 || sub.Description == nil || *sub.Description != "books" {
		t.Fatalf("sub = %+v", sub)
	}
}

func TestListGoalsOrdering(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()

	for _, in := range []CreateGoalInput{
		{Title: "old", Type: "plan", Year: intPtr(2024)},
		{Title: "new-first", Type: "plan", Year: intPtr(2026)},
		{Title: "new-second", Type: "subgoals", Year: intPtr(2026)},
	} {
		if _, err := f.goals.CreateGoal(ctx, u.ID, in); err != nil {
			t.Fatalf("CreateGoal: %v", err)
		}
	}

	goals, err := f.goals.ListGoals(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	var titles []string
	for _, g := range goals {
		titles = append(titles, g.Title)
	}
	want := []string{"new-second", "new-first", "old"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v", titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
	}

	other := f.register(t, "bob@example.com")
	goals, err = f.goals.ListGoals(ctx, other.ID)
	if err != nil || len(goals) != 0 {
		t.Fatalf("other user's goals = %v, %v", goals, err)
	}
}

func TestMonthsSortedByOrder(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	g := f.createGoal(t, u.ID, "plan", "plan")

	f.addMonth(t, g.ID, u.ID, "March", 3)
	f.addMonth(t, g.ID, u.ID, "January", 1)
	f.addMonth(t, g.ID, u.ID, "February", 2)

	got, err := f.goals.GetGoal(context.Background(), g.ID, u.ID)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	for i, name := range []string{"January", "February", "March"} {
		if got.Months[i].Name != name {
			t.Fatalf("months[%d] = %s, want %s", i, got.Months[i].Name, name)
		}
	}
}

func TestPlanProgress(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()
	g := f.createGoal(t, u.ID, "plan", "plan")
	jan := f.addMonth(t, g.ID, u.ID, "January", 1)
	feb := f.addMonth(t, g.ID, u.ID, "February", 2)

	got, err := f.goals.GetGoal(ctx, g.ID, u.ID)
	if err != nil || got.Progress != 0 {
		t.Fatalf("empty plan progress = %v, %v", got, err)
	}

	t1 := f.addTask(t, g.ID, jan.ID, u.ID, "one")
	f.addTask(t, g.ID, jan.ID, u.ID, "two")
	f.addTask(t, g.ID, feb.ID, u.ID, "three")

	if _, err := f.goals.ToggleTask(ctx, g.ID, t1.ID, u.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}

	got, err = f.goals.GetGoal(ctx, g.ID, u.ID)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got.Progress != 33 {
		t.Fatalf("progress = %d, want 33", got.Progress)
	}
}

func TestToggleTaskTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()
	g := f.createGoal(t, u.ID, "plan", "plan")
	m := f.addMonth(t, g.ID, u.ID, "January", 1)
	task := f.addTask(t, g.ID, m.ID, u.ID, "run 5k")

	if task.Completed || task.CompletedAt != nil {
		t.Fatalf("new task = %+v", task)
	}

	on, err := f.goals.ToggleTask(ctx, g.ID, task.ID, u.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !on.Completed || on.CompletedAt == nil || !on.CompletedAt.Equal(fixedNow) {
		t.Fatalf("after first toggle = %+v", on)
	}

	off, err := f.goals.ToggleTask(ctx, g.ID, task.ID, u.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if off.Completed || off.CompletedAt != nil {
		t.Fatalf("after second toggle = %+v", off)
	}

	var stored models.TaskItem
	if err := f.db.First(&stored, "id = ?", task.ID).Error; err != nil {
		t.Fatalf("load task: %v", err)
	}
	if stored.Completed || stored.CompletedAt != nil {
		t.Fatalf("stored = %+v", stored)
	}

	// only the completion recorded activity
	var act models.DailyActivity
	if err := f.db.First(&act, "user_id = ?", u.ID).Error; err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if act.TasksCompleted != 1 || act.Date != "2026-03-10" {
		t.Fatalf("activity = %+v", act)
	}
}

func TestSubGoalLifecycle(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()
	g := f.createGoal(t, u.ID, "read", "subgoals")

	a, err := f.goals.AddSubGoal(ctx, g.ID, u.ID, "book one")
	if err != nil {
		t.Fatalf("AddSubGoal: %v", err)
	}
	if _, err := f.goals.AddSubGoal(ctx, g.ID, u.ID, "book two"); err != nil {
		t.Fatalf("AddSubGoal: %v", err)
	}

	toggled, err := f.goals.ToggleSubGoal(ctx, g.ID, a.ID, u.ID)
	if err != nil {
		t.Fatalf("ToggleSubGoal: %v", err)
	}
	if !toggled.Completed || toggled.CompletedAt == nil {
		t.Fatalf("toggled = %+v", toggled)
	}

	got, err := f.goals.GetGoal(ctx, g.ID, u.ID)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got.Progress != 50 || len(got.SubGoals) != 2 || got.Months != nil {
		t.Fatalf("goal = %+v", got)
	}
	if got.SubGoals[0].Text != "book one" || got.SubGoals[1].Text != "book two" {
		t.Fatalf("subgoals out of stored order: %+v", got.SubGoals)
	}

	if err := f.goals.DeleteSubGoal(ctx, g.ID, a.ID, u.ID); err != nil {
		t.Fatalf("DeleteSubGoal: %v", err)
	}
	if err := f.goals.DeleteSubGoal(ctx, g.ID, a.ID, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteSubGoal = %v, want ErrNotFound", err)
	}
}

func TestVariantMismatchRejected(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()
	plan := f.createGoal(t, u.ID, "plan", "plan")
	list := f.createGoal(t, u.ID, "list", "subgoals")

	if _, err := f.goals.AddMonth(ctx, list.ID, u.ID, "January", 1); !errors.Is(err, ErrRejected) {
		t.Fatalf("AddMonth on subgoals goal = %v, want ErrRejected", err)
	}
	if _, err := f.goals.AddSubGoal(ctx, plan.ID, u.ID, "x"); !errors.Is(err, ErrRejected) {
		t.Fatalf("AddSubGoal on plan goal = %v, want ErrRejected", err)
	}
	if _, err := f.goals.AddMonth(ctx, uuid.New(), u.ID, "January", 1); !errors.Is(err, ErrRejected) {
		t.Fatalf("AddMonth on missing goal = %v, want ErrRejected", err)
	}
}

func TestDuplicateMonthName(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()
	g1 := f.createGoal(t, u.ID, "one", "plan")
	g2 := f.createGoal(t, u.ID, "two", "plan")

	f.addMonth(t, g1.ID, u.ID, "January", 1)

	_, err := f.goals.AddMonth(ctx, g1.ID, u.ID, "January", 5)
	if !errors.Is(err, ErrRejected) || !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate AddMonth = %v, want ErrRejected and ErrConflict", err)
	}

	// case-sensitive check
	f.addMonth(t, g1.ID, u.ID, "january", 2)
	// same name on another goal
	f.addMonth(t, g2.ID, u.ID, "January", 1)
}

func TestDeleteGoalCascades(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()

	plan := f.createGoal(t, u.ID, "plan", "plan")
	m := f.addMonth(t, plan.ID, u.ID, "January", 1)
	f.addTask(t, plan.ID, m.ID, u.ID, "one")
	f.addTask(t, plan.ID, m.ID, u.ID, "two")

	list := f.createGoal(t, u.ID, "list", "subgoals")
	if _, err := f.goals.AddSubGoal(ctx, list.ID, u.ID, "x"); err != nil {
		t.Fatalf("AddSubGoal: %v", err)
	}

	if err := f.goals.DeleteGoal(ctx, plan.ID, u.ID); err != nil {
		t.Fatalf("DeleteGoal(plan): %v", err)
	}
	if err := f.goals.DeleteGoal(ctx, list.ID, u.ID); err != nil {
		t.Fatalf("DeleteGoal(list): %v", err)
	}

	for name, model := range map[string]interface{}{
		"goals":     &models.Goal{},
		"months":    &models.Month{},
		"tasks":     &models.TaskItem{},
		"sub_goals": &models.SubGoal{},
	} {
		if n := countRows(t, f.db, model); n != 0 {
			t.Errorf("%s rows left = %d", name, n)
		}
	}

	if err := f.goals.DeleteGoal(ctx, plan.ID, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteGoal = %v, want ErrNotFound", err)
	}
}

func TestDeleteMonthCascadesTasks(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()
	g := f.createGoal(t, u.ID, "plan", "plan")
	m := f.addMonth(t, g.ID, u.ID, "January", 1)
	f.addTask(t, g.ID, m.ID, u.ID, "one")

	if err := f.goals.DeleteMonth(ctx, g.ID, m.ID, u.ID); err != nil {
		t.Fatalf("DeleteMonth: %v", err)
	}
	if n := countRows(t, f.db, &models.TaskItem{}); n != 0 {
		t.Fatalf("tasks left = %d", n)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()
	g := f.createGoal(t, u.ID, "plan", "plan")
	m := f.addMonth(t, g.ID, u.ID, "January", 1)
	task := f.addTask(t, g.ID, m.ID, u.ID, "one")
	if _, err := f.goals.ToggleTask(ctx, g.ID, task.ID, u.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}

	if err := f.db.Delete(&models.User{}, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if n := countRows(t, f.db, &models.Goal{}); n != 0 {
		t.Errorf("goals left = %d", n)
	}
	if n := countRows(t, f.db, &models.DailyActivity{}); n != 0 {
		t.Errorf("activity rows left = %d", n)
	}
}

func TestDeleteTaskRequiresFullChain(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()
	g := f.createGoal(t, u.ID, "plan", "plan")
	jan := f.addMonth(t, g.ID, u.ID, "January", 1)
	feb := f.addMonth(t, g.ID, u.ID, "February", 2)
	task := f.addTask(t, g.ID, jan.ID, u.ID, "one")

	if err := f.goals.DeleteTask(ctx, g.ID, feb.ID, task.ID, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteTask via wrong month = %v, want ErrNotFound", err)
	}
	if err := f.goals.DeleteTask(ctx, g.ID, jan.ID, task.ID, u.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
}

func TestUpdateGoal(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	ctx := context.Background()
	g := f.createGoal(t, u.ID, "old", "plan")

	desc := "new description"
	got, err := f.goals.UpdateGoal(ctx, g.ID, u.ID, UpdateGoalInput{Title: "new", Description: &desc})
	if err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	if got.Title != "new" || got.Description == nil || *got.Description != desc || got.Type != models.GoalTypePlan {
		t.Fatalf("updated = %+v", got)
	}

	// unchanged values still resolve
	if _, err := f.goals.UpdateGoal(ctx, g.ID, u.ID, UpdateGoalInput{Title: "new", Description: &desc}); err != nil {
		t.Fatalf("idempotent UpdateGoal: %v", err)
	}

	other := f.register(t, "bob@example.com")
	if _, err := f.goals.UpdateGoal(ctx, g.ID, other.ID, UpdateGoalInput{Title: "stolen"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateGoal by other user = %v, want ErrNotFound", err)
	}
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "ann@example.com")
	intruder := f.register(t, "eve@example.com")
	ctx := context.Background()

	plan := f.createGoal(t, owner.ID, "plan", "plan")
	m := f.addMonth(t, plan.ID, owner.ID, "January", 1)
	task := f.addTask(t, plan.ID, m.ID, owner.ID, "one")
	list := f.createGoal(t, owner.ID, "list", "subgoals")
	sub, err := f.goals.AddSubGoal(ctx, list.ID, owner.ID, "x")
	if err != nil {
		t.Fatalf("AddSubGoal: %v", err)
	}

	eve := intruder.ID
	checks := map[string]error{}
	_, checks["GetGoal"] = f.goals.GetGoal(ctx, plan.ID, eve)
	checks["DeleteGoal"] = f.goals.DeleteGoal(ctx, plan.ID, eve)
	checks["DeleteMonth"] = f.goals.DeleteMonth(ctx, plan.ID, m.ID, eve)
	_, checks["ToggleTask"] = f.goals.ToggleTask(ctx, plan.ID, task.ID, eve)
	checks["DeleteTask"] = f.goals.DeleteTask(ctx, plan.ID, m.ID, task.ID, eve)
	_, checks["ToggleSubGoal"] = f.goals.ToggleSubGoal(ctx, list.ID, sub.ID, eve)
	checks["DeleteSubGoal"] = f.goals.DeleteSubGoal(ctx, list.ID, sub.ID, eve)
	// right owner, wrong goal id in the chain
	_, checks["ToggleTask(wrong goal)"] = f.goals.ToggleTask(ctx, list.ID, task.ID, owner.ID)

	for name, err := range checks {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s = %v, want ErrNotFound", name, err)
		}
	}

	if _, err := f.goals.AddMonth(ctx, plan.ID, eve, "February", 2); !errors.Is(err, ErrRejected) {
		t.Errorf("AddMonth = %v, want ErrRejected", err)
	}
	if _, err := f.goals.AddTask(ctx, plan.ID, m.ID, eve, "sneaky"); !errors.Is(err, ErrRejected) {
		t.Errorf("AddTask = %v, want ErrRejected", err)
	}
	if _, err := f.goals.AddSubGoal(ctx, list.ID, eve, "sneaky"); !errors.Is(err, ErrRejected) {
		t.Errorf("AddSubGoal = %v, want ErrRejected", err)
	}

	// nothing of the owner's changed
	got, err := f.goals.GetGoal(ctx, plan.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetGoal(owner): %v", err)
	}
	if len(got.Months) != 1 || len(got.Months[0].Tasks) != 1 || got.Months[0].Tasks[0].Completed {
		t.Fatalf("owner goal modified: %+v", got)
	}
	if n := countRows(t, f.db, &models.DailyActivity{}); n != 0 {
		t.Fatalf("activity rows = %d, want 0", n)
	}
}

func TestMonthNameTrimmed(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ann@example.com")
	g := f.createGoal(t, u.ID, "plan", "plan")

	m := f.addMonth(t, g.ID, u.ID, " Jan ", 1)
	if m.Name != "Jan" {
		t.Fatalf("name = %q, want trimmed", m.Name)
	}

	_, err := f.goals.AddMonth(context.Background(), g.ID, u.ID, "Jan", 2)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want ErrRejected for the trimmed duplicate", err)
	}
}
