package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseGoalType(t *testing.T) {
	tests := []struct {
		in   string
		want GoalType
	}{
		{"plan", GoalTypePlan},
		{"PLAN", GoalTypePlan},
		{" Plan ", GoalTypePlan},
		{"subgoals", GoalTypeSubGoals},
		{"checklist", GoalTypeSubGoals},
		{"", GoalTypeSubGoals},
	}
	for _, tt := range tests {
		if got := ParseGoalType(tt.in); got != tt.want {
			t.Errorf("ParseGoalType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds up
		{3, 8, 38}, // 37.5 rounds up
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestGoalProgressIgnoresInactiveCollection(t *testing.T) {
	g := Goal{
		Type:     GoalTypePlan,
		Months:   []Month{{Tasks: []TaskItem{{Completed: true}, {}, {}}}},
		SubGoals: []SubGoal{{Completed: true}},
	}
	if got := g.Progress(); got != 33 {
		t.Fatalf("plan progress = %d, want 33", got)
	}

	g.Type = GoalTypeSubGoals
	if got := g.Progress(); got != 100 {
		t.Fatalf("subgoals progress = %d, want 100", got)
	}
}

func TestGoalDTOOnlyExposesActiveCollection(t *testing.T) {
	plan := Goal{Type: GoalTypePlan}.ToDTO()
	if plan.Months == nil || plan.SubGoals != nil {
		t.Fatalf("plan dto: months=%v subGoals=%v", plan.Months, plan.SubGoals)
	}

	b, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"months":[]`) || !strings.Contains(string(b), `"subGoals":null`) {
		t.Fatalf("unexpected json: %s", b)
	}

	sub := Goal{Type: GoalTypeSubGoals, Months: []Month{{Name: "January"}}}.ToDTO()
	if sub.Months != nil || sub.SubGoals == nil {
		t.Fatalf("subgoals dto: months=%v subGoals=%v", sub.Months, sub.SubGoals)
	}
}
