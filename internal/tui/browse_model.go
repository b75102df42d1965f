package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/balkashynov/goalie/internal/models"
)

// GoalStore is the part of the goal service the browser needs
type GoalStore interface {
	ListGoals(ctx context.Context, userID uuid.UUID) ([]models.GoalDTO, error)
	ToggleTask(ctx context.Context, goalID, taskID, userID uuid.UUID) (*models.TaskDTO, error)
	ToggleSubGoal(ctx context.Context, goalID, subGoalID, userID uuid.UUID) (*models.SubGoalDTO, error)
}

// Focus represents what UI element has focus
type Focus int

const (
	FocusGoals Focus = iota
	FocusItems
	FocusFilter
)

// item is one row of the detail panel: a plan task or a subgoal
type item struct {
	id        uuid.UUID
	group     string // month name for plan tasks
	text      string
	completed bool
	subGoal   bool
}

type goalsLoadedMsg struct {
	goals []models.GoalDTO
	err   error
}

// BrowseModel lists a user's goals and lets them tick items off
type BrowseModel struct {
	ctx    context.Context
	store  GoalStore
	userID uuid.UUID

	width  int
	height int

	goals   []models.GoalDTO
	visible []int // indexes into goals after filtering

	table  table.Model
	bar    progress.Model
	filter textinput.Model

	focus      Focus
	itemCursor int
	err        error
}

// NewBrowseModel creates a browser over an initial goal list
func NewBrowseModel(ctx context.Context, store GoalStore, userID uuid.UUID, goals []models.GoalDTO) BrowseModel {
	t := table.New(
		table.WithColumns(goalColumns(60)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorAccentMain)).
		Bold(true)
	t.SetStyles(styles)

	filter := textinput.New()
	filter.Prompt = "Filter: "
	filter.Placeholder = "title"
	filter.CharLimit = 200

	m := BrowseModel{
		ctx:    ctx,
		store:  store,
		userID: userID,
		table:  t,
		bar:    progress.New(progress.WithGradient(ColorAccentMain, ColorAccentBright), progress.WithWidth(30)),
		filter: filter,
		focus:  FocusGoals,
	}
	m.setGoals(goals)
	return m
}

func goalColumns(width int) []table.Column {
	titleWidth := width - 10 - 6 - 6 - 8
	if titleWidth < 12 {
		titleWidth = 12
	}
	return []table.Column{
		{Title: "Title", Width: titleWidth},
		{Title: "Type", Width: 10},
		{Title: "Year", Width: 6},
		{Title: "Done", Width: 6},
	}
}

// setGoals replaces the goal list and keeps the cursor in range
func (m *BrowseModel) setGoals(goals []models.GoalDTO) {
	m.goals = goals
	m.applyFilter()
}

func (m *BrowseModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = make([]int, 0, len(m.goals))
	rows := make([]table.Row, 0, len(m.goals))
	for i, g := range m.goals {
		if query != "" && !strings.Contains(strings.ToLower(g.Title), query) {
			continue
		}
		m.visible = append(m.visible, i)
		rows = append(rows, table.Row{g.Title, string(g.Type), fmt.Sprint(g.Year), fmt.Sprintf("%d%%", g.Progress)})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	m.clampItemCursor()
}

// Selected returns the goal under the table cursor
func (m BrowseModel) Selected() (models.GoalDTO, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return models.GoalDTO{}, false
	}
	return m.goals[m.visible[cursor]], true
}

// items flattens the active collection of the selected goal
func (m BrowseModel) items() []item {
	goal, ok := m.Selected()
	if !ok {
		return nil
	}
	var out []item
	if goal.Type == models.GoalTypePlan {
		for _, month := range goal.Months {
			for _, t := range month.Tasks {
				out = append(out, item{id: t.ID, group: month.Name, text: t.Text, completed: t.Completed})
			}
		}
		return out
	}
	for _, s := range goal.SubGoals {
		out = append(out, item{id: s.ID, text: s.Text, completed: s.Completed, subGoal: true})
	}
	return out
}

func (m *BrowseModel) clampItemCursor() {
	n := len(m.items())
	if m.itemCursor >= n {
		m.itemCursor = n - 1
	}
	if m.itemCursor < 0 {
		m.itemCursor = 0
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(goalColumns(m.width * 55 / 100))
		m.table.SetHeight(max(m.height-8, 3))
		m.bar.Width = max(m.width*45/100-12, 10)
		return m, nil

	case goalsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setGoals(msg.goals)
		return m, nil

	case tea.KeyMsg:
		if m.focus == FocusFilter {
			return m.handleFilterKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if msg.String() == "esc" && m.focus == FocusItems {
				m.focus = FocusGoals
				m.table.Focus()
				return m, nil
			}
			return m, tea.Quit

		case "/":
			m.focus = FocusFilter
			m.table.Blur()
			return m, m.filter.Focus()

		case "tab":
			if m.focus == FocusGoals && len(m.items()) > 0 {
				m.focus = FocusItems
				m.table.Blur()
			} else {
				m.focus = FocusGoals
				m.table.Focus()
			}
			return m, nil
		}

		if m.focus == FocusItems {
			return m.handleItemKeys(msg)
		}
	}

	var cmd tea.Cmd
	before := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != before {
		m.itemCursor = 0
	}
	return m, cmd
}

func (m BrowseModel) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		fallthrough
	case "enter":
		m.filter.Blur()
		m.focus = FocusGoals
		m.table.Focus()
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m BrowseModel) handleItemKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.items()
	switch msg.String() {
	case "up", "k":
		if m.itemCursor > 0 {
			m.itemCursor--
		}
	case "down", "j":
		if m.itemCursor < len(items)-1 {
			m.itemCursor++
		}
	case " ", "enter":
		goal, ok := m.Selected()
		if !ok || m.itemCursor >= len(items) {
			return m, nil
		}
		return m, m.toggle(goal.ID, items[m.itemCursor])
	}
	return m, nil
}

// toggle flips an item and reloads the goal list
func (m BrowseModel) toggle(goalID uuid.UUID, it item) tea.Cmd {
	ctx, store, userID := m.ctx, m.store, m.userID
	return func() tea.Msg {
		var err error
		if it.subGoal {
			_, err = store.ToggleSubGoal(ctx, goalID, it.id, userID)
		} else {
			_, err = store.ToggleTask(ctx, goalID, it.id, userID)
		}
		if err != nil {
			return goalsLoadedMsg{err: err}
		}
		goals, err := store.ListGoals(ctx, userID)
		return goalsLoadedMsg{goals: goals, err: err}
	}
}

func (m BrowseModel) View() string {
	width := m.width
	if width == 0 {
		width = 100
	}
	leftWidth := width * 55 / 100
	rightWidth := width - leftWidth - 1

	left := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(FocusGoals)).
		Render(m.table.View())
	right := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(FocusItems)).
		Width(rightWidth - 2).
		Render(m.renderDetails())

	var footer string
	switch {
	case m.focus == FocusFilter:
		footer = m.filter.View()
	case m.err != nil:
		footer = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("Error: " + m.err.Error())
	default:
		footer = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Italic(true).
			Render("↑/↓ nav · tab items · space toggle · / filter · q/esc quit")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right),
		footer,
	)
}

func (m BrowseModel) borderColor(f Focus) lipgloss.Color {
	if m.focus == f {
		return lipgloss.Color(ColorAccentMain)
	}
	return lipgloss.Color(ColorBorder)
}

func (m BrowseModel) renderDetails() string {
	goal, ok := m.Selected()
	if !ok {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("No goals yet")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText)).Render(goal.Title))
	b.WriteString("\n")
	if goal.Description != nil && *goal.Description != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Render(*goal.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(float64(goal.Progress) / 100))
	b.WriteString(fmt.Sprintf(" %d%%\n\n", goal.Progress))

	items := m.items()
	if len(items) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("Nothing to do yet"))
		return b.String()
	}

	groupStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	group := ""
	for i, it := range items {
		if it.group != "" && it.group != group {
			group = it.group
			b.WriteString(groupStyle.Render(group))
			b.WriteString("\n")
		}

		mark := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render("○")
		if it.completed {
			mark = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("✓")
		}
		line := mark + " " + it.text
		if m.focus == FocusItems && i == m.itemCursor {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
