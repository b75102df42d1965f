package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/goalie/internal/models"
)

// heatmapWeeks is how many week columns the activity grid shows
const heatmapWeeks = 12

var weekdayLabels = []string{"Mon", "", "Wed", "", "Fri", "", "Sun"}

// RenderStats renders the analytics report for one user
func RenderStats(name string, stats models.AnalyticsDTO, today time.Time) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentMain))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Width(18)
	valueStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText))

	var b strings.Builder
	b.WriteString(titleStyle.Render("goalie · " + name))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("Goals", fmt.Sprintf("%d", stats.TotalGoals))
	row("Completed", fmt.Sprintf("%d/%d (%d%%)", stats.CompletedTasks, stats.TotalTasks,
		models.Percent(stats.CompletedTasks, stats.TotalTasks)))
	row("Current streak", streakText(stats.CurrentStreak))
	b.WriteString("\n")
	b.WriteString(renderHeatmap(stats.Activity, today))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2).
		Render(b.String())
}

func streakText(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// activityLevel buckets a day's completions into a heatmap shade
func activityLevel(n int) int {
	switch {
	case n <= 0:
		return 0
	case n <= 2:
		return 1
	case n <= 5:
		return 2
	}
	return 3
}

// heatmapStart is the Monday that opens the first grid column
func heatmapStart(today time.Time) time.Time {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(today.Weekday()) + 6) % 7
	return today.AddDate(0, 0, -sinceMonday-7*(heatmapWeeks-1))
}

// renderHeatmap draws one column per week and one row per weekday; days
// after today stay blank
func renderHeatmap(activity []models.DailyActivityDTO, today time.Time) string {
	counts := make(map[string]int, len(activity))
	for _, a := range activity {
		counts[a.Date] = a.TasksCompleted
	}

	todayKey := models.DayOf(today)
	start := heatmapStart(today)
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Width(4)

	var b strings.Builder
	for weekday := 0; weekday < 7; weekday++ {
		b.WriteString(labelStyle.Render(weekdayLabels[weekday]))
		for week := 0; week < heatmapWeeks; week++ {
			day := models.DayOf(start.AddDate(0, 0, week*7+weekday))
			if day > todayKey {
				b.WriteString("  ")
				continue
			}
			level := activityLevel(counts[day])
			glyph := "■"
			if level == 0 {
				glyph = "·"
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(activityColors[level])).Render(glyph))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
