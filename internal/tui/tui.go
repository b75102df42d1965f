package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// RunBrowseTUI starts the interactive goal browser
func RunBrowseTUI(ctx context.Context, store GoalStore, userID uuid.UUID) error {
	goals, err := store.ListGoals(ctx, userID)
	if err != nil {
		return err
	}

	model := NewBrowseModel(ctx, store, userID, goals)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(BrowseModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
