// Package detail renders the side panel: the identity card and the event
// log.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/theme"
)

// cardHeight is the number of lines taken by the identity card.
const cardHeight = 6

// Model is the side panel view component.
type Model struct {
	profile  model.Profile
	stats    model.FocusStats
	logs     []model.LogEntry
	viewport viewport.Model
	bar      progress.Model
	width    int
	height   int
}

// New creates a new side panel model.
func New(width, height int) Model {
	vp := viewport.New(width-4, height-cardHeight-4)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(width-6)),
		width:    width,
		height:   height,
	}
}

// SetData replaces the profile, focus stats and log entries.
func (m *Model) SetData(p model.Profile, stats model.FocusStats, logs []model.LogEntry) {
	m.profile = p
	m.stats = stats
	m.logs = logs
	m.viewport.SetContent(m.renderLogs())
	m.viewport.GotoTop()
}

// Update delegates scrolling to the log viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// LevelProgress returns the fraction of the current level already earned.
func LevelProgress(xp int) float64 {
	if xp < 0 {
		return 0
	}
	return float64(xp%model.XPPerLevel) / float64(model.XPPerLevel)
}

func (m Model) renderCard() string {
	p := m.profile
	lines := []string{
		theme.TitleStyle.Render("IDENTITY"),
		fmt.Sprintf("%s · LVL %d", p.Name, p.Level),
		m.bar.ViewAs(LevelProgress(p.XP)),
		theme.DimmedStyle.Render(fmt.Sprintf("%d XP · next level at %d", p.XP, p.Level*model.XPPerLevel)),
		theme.DimmedStyle.Render(fmt.Sprintf("focus %d min in %d sessions", m.stats.TotalMinutes, m.stats.Sessions)),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLogs() string {
	if len(m.logs) == 0 {
		return theme.HelpStyle.Render("No events yet.")
	}

	var b strings.Builder
	for _, e := range m.logs {
		b.WriteString(theme.DimmedStyle.Render(e.Timestamp))
		b.WriteString(" ")
		b.WriteString(theme.SeverityStyle(e.Severity).Render(e.Message))
		b.WriteString("\n")
	}
	return b.String()
}

// View renders the side panel.
func (m Model) View() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderCard(),
		"",
		theme.TitleStyle.Render("SYSTEM LOG"),
		m.viewport.View(),
	)
	return theme.PanelStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(content)
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 4
	m.viewport.Height = max(height-cardHeight-4, 3)
	m.bar.Width = max(width-6, 10)
}
