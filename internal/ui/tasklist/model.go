package tasklist

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/keys"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/theme"
)

// Pane selects which list receives navigation keys.
type Pane int

const (
	PaneSchedule Pane = iota
	PaneSuggestions
)

// CompleteMsg asks the parent to complete a task.
type CompleteMsg struct{ ID string }

// DeleteMsg asks the parent to delete a task.
type DeleteMsg struct{ ID string }

// FocusMsg asks the parent to start a focus session on a task.
type FocusMsg struct{ ID string }

// AcceptMsg asks the parent to promote a suggestion.
type AcceptMsg struct{ ID string }

// RejectMsg asks the parent to discard a suggestion.
type RejectMsg struct{ ID string }

// Model renders the schedule and the pending suggestions.
type Model struct {
	keys        *keys.KeyMap
	tasks       []model.Task
	suggestions []model.Task
	pane        Pane
	cursor      [2]int
	now         time.Time
	width       int
	height      int
}

// New creates a schedule view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetData replaces the rendered tasks, keeping the cursors in range.
func (m *Model) SetData(tasks, suggestions []model.Task, now time.Time) {
	m.tasks = tasks
	m.suggestions = suggestions
	m.now = now
	m.cursor[PaneSchedule] = clamp(m.cursor[PaneSchedule], len(tasks))
	m.cursor[PaneSuggestions] = clamp(m.cursor[PaneSuggestions], len(suggestions))
	if m.pane == PaneSuggestions && len(suggestions) == 0 {
		m.pane = PaneSchedule
	}
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Pane returns the pane that receives keys.
func (m Model) Pane() Pane {
	return m.pane
}

func (m Model) items() []model.Task {
	if m.pane == PaneSuggestions {
		return m.suggestions
	}
	return m.tasks
}

// Selected returns the item under the cursor of the active pane.
func (m Model) Selected() (model.Task, bool) {
	items := m.items()
	if len(items) == 0 {
		return model.Task{}, false
	}
	return items[m.cursor[m.pane]], true
}

// Update handles key input for the schedule.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if n := len(m.items()); n > 0 {
			m.cursor[m.pane] = (m.cursor[m.pane] + 1) % n
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Up):
		if n := len(m.items()); n > 0 {
			m.cursor[m.pane] = (m.cursor[m.pane] - 1 + n) % n
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Tab):
		if m.pane == PaneSchedule && len(m.suggestions) > 0 {
			m.pane = PaneSuggestions
		} else {
			m.pane = PaneSchedule
		}
		return m, nil
	}

	t, ok := m.Selected()
	if !ok {
		return m, nil
	}
	id := t.ID

	if m.pane == PaneSuggestions {
		switch {
		case key.Matches(keyMsg, m.keys.Accept):
			return m, func() tea.Msg { return AcceptMsg{ID: id} }
		case key.Matches(keyMsg, m.keys.Reject), key.Matches(keyMsg, m.keys.Delete):
			return m, func() tea.Msg { return RejectMsg{ID: id} }
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Complete):
		return m, func() tea.Msg { return CompleteMsg{ID: id} }
	case key.Matches(keyMsg, m.keys.Delete):
		return m, func() tea.Msg { return DeleteMsg{ID: id} }
	case key.Matches(keyMsg, m.keys.Focus):
		return m, func() tea.Msg { return FocusMsg{ID: id} }
	}
	return m, nil
}

// View renders both lists.
func (m Model) View() string {
	w := m.width - 4

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("SCHEDULE"))
	b.WriteString("\n")
	if len(m.tasks) == 0 {
		b.WriteString(theme.HelpStyle.Render("  No tasks. Press : and type \"Call Mom tomorrow at 5pm\"."))
		b.WriteString("\n")
	}
	for i, t := range m.tasks {
		b.WriteString(renderItem(t, m.now, m.pane == PaneSchedule && i == m.cursor[PaneSchedule], w))
		b.WriteString("\n")
	}

	if len(m.suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.TitleStyle.Render("SUGGESTIONS"))
		b.WriteString(theme.HelpStyle.Render("  tab to select · y accept · n reject"))
		b.WriteString("\n")
		for i, t := range m.suggestions {
			b.WriteString(renderItem(t, m.now, m.pane == PaneSuggestions && i == m.cursor[PaneSuggestions], w))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height).
		Render(b.String())
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
