// Package insights renders the priority matrix, the analytics page and the
// completion archive.
package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhle/jarvis/internal/keys"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/state"
	"github.com/nhle/jarvis/internal/theme"
)

// Page selects what the view shows.
type Page int

const (
	PageMatrix Page = iota
	PageAnalytics
	PageArchive
)

var pageNames = []string{"MATRIX", "ANALYTICS", "ARCHIVE"}

// CloseMsg signals the parent to close the view.
type CloseMsg struct{}

// Data is everything the three pages render.
type Data struct {
	Quadrants map[model.Quadrant][]model.Task
	Velocity  []state.DayCount
	Profile   model.Profile
	Focus     model.FocusStats
	History   []model.HistoryEntry
	Now       time.Time
}

var quadrantTitles = map[model.Quadrant]string{
	model.QuadrantDoFirst:   "DO FIRST · urgent & important",
	model.QuadrantSchedule:  "SCHEDULE · important",
	model.QuadrantDelegate:  "DELEGATE · urgent",
	model.QuadrantEliminate: "ELIMINATE · neither",
}

// Model is the insights view.
type Model struct {
	keys   *keys.KeyMap
	page   Page
	data   Data
	width  int
	height int
}

// New creates the insights view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetData replaces the rendered data.
func (m *Model) SetData(d Data) {
	m.data = d
}

// Page returns the current page.
func (m Model) Page() Page {
	return m.page
}

// Update switches pages and closes the view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }
	case key.Matches(k, m.keys.Tab):
		m.page = (m.page + 1) % Page(len(pageNames))
	}
	return m, nil
}

// View renders the current page.
func (m Model) View() string {
	tabs := make([]string, len(pageNames))
	for i, name := range pageNames {
		if Page(i) == m.page {
			tabs[i] = theme.TitleStyle.Underline(true).Render(name)
		} else {
			tabs[i] = theme.DimmedStyle.Render(name)
		}
	}
	header := strings.Join(tabs, "   ") + theme.HelpStyle.Render("   tab next · esc back")

	var body string
	switch m.page {
	case PageMatrix:
		body = m.viewMatrix()
	case PageAnalytics:
		body = m.viewAnalytics()
	default:
		body = m.viewArchive()
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(header + "\n\n" + body)
}

func (m Model) viewMatrix() string {
	cellW := max((m.width-8)/2, 20)
	cellH := max((m.height-8)/2, 4)

	cell := func(q model.Quadrant) string {
		lines := []string{theme.QuadrantStyle(q).Render(quadrantTitles[q])}
		tasks := m.data.Quadrants[q]
		if len(tasks) == 0 {
			lines = append(lines, theme.HelpStyle.Render("empty"))
		}
		for _, t := range tasks {
			lines = append(lines, "• "+t.Text)
		}
		return theme.PanelStyle.
			Width(cellW).
			Height(cellH).
			MaxHeight(cellH + 2).
			Render(strings.Join(lines, "\n"))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cell(model.QuadrantDoFirst), cell(model.QuadrantSchedule)),
		lipgloss.JoinHorizontal(lipgloss.Top, cell(model.QuadrantDelegate), cell(model.QuadrantEliminate)),
	)
}

// Bars renders one horizontal bar per day, scaled to width.
func Bars(days []state.DayCount, width int) string {
	peak := 0
	for _, d := range days {
		peak = max(peak, d.Count)
	}

	var b strings.Builder
	for _, d := range days {
		n := 0
		if peak > 0 {
			n = d.Count * width / peak
		}
		fmt.Fprintf(&b, "%-3s %s %d\n", d.Label, strings.Repeat("█", n), d.Count)
	}
	return b.String()
}

func (m Model) viewAnalytics() string {
	p := m.data.Profile
	total := 0
	for _, d := range m.data.Velocity {
		total += d.Count
	}

	stats := []string{
		fmt.Sprintf("Level %d · %s XP", p.Level, humanize.Comma(int64(p.XP))),
		fmt.Sprintf("Tasks archived: %s", humanize.Comma(int64(len(m.data.History)))),
		fmt.Sprintf("Focus: %d min over %d sessions", m.data.Focus.TotalMinutes, m.data.Focus.Sessions),
		fmt.Sprintf("Completed this week: %d", total),
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		theme.TitleStyle.Render("VELOCITY · last 7 days"),
		Bars(m.data.Velocity, max(m.width-20, 10)),
		theme.TitleStyle.Render("STATS"),
		strings.Join(stats, "\n"),
	)
}

func (m Model) viewArchive() string {
	if len(m.data.History) == 0 {
		return theme.HelpStyle.Render("Nothing archived yet. Complete a task with x.")
	}

	limit := max(m.height-6, 1)
	var b strings.Builder
	for i, h := range m.data.History {
		if i >= limit {
			fmt.Fprintf(&b, "%s\n", theme.DimmedStyle.Render(fmt.Sprintf("… %d more", len(m.data.History)-limit)))
			break
		}
		when := humanize.RelTime(h.CompletedAt, m.data.Now, "ago", "from now")
		fmt.Fprintf(&b, "%s %s %s\n",
			lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(fmt.Sprintf("+%d", h.XPEarned)),
			h.Text,
			theme.DimmedStyle.Render(when),
		)
	}
	return b.String()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
