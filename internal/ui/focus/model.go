// Package focus renders the full-screen focus session overlay.
package focus

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/theme"
)

// ExitMsg asks the parent to end the session.
type ExitMsg struct {
	Completed bool
}

// Model is the focus overlay.
type Model struct {
	session model.FocusSession
	elapsed time.Duration
	block   time.Duration
	bar     progress.Model
	width   int
	height  int
}

// New creates a focus overlay.
func New(width, height int) Model {
	return Model{
		bar:    progress.New(progress.WithSolidFill("#22D3EE"), progress.WithoutPercentage()),
		width:  width,
		height: height,
	}
}

// Start shows the overlay for a session with a planned block length.
func (m *Model) Start(s model.FocusSession, blockMinutes int) {
	m.session = s
	m.elapsed = 0
	if blockMinutes <= 0 {
		blockMinutes = 45
	}
	m.block = time.Duration(blockMinutes) * time.Minute
}

// SetElapsed updates the timer.
func (m *Model) SetElapsed(d time.Duration) {
	m.elapsed = d
}

// Update maps enter to completion and esc to abort.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "x":
			return m, func() tea.Msg { return ExitMsg{Completed: true} }
		case "esc":
			return m, func() tea.Msg { return ExitMsg{Completed: false} }
		}
	}
	return m, nil
}

// Clock formats an elapsed duration as MM:SS, or H:MM:SS past an hour.
func Clock(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// View renders the overlay.
func (m Model) View() string {
	ratio := 0.0
	if m.block > 0 {
		ratio = min(float64(m.elapsed)/float64(m.block), 1)
	}

	status := theme.DimmedStyle.Render(fmt.Sprintf("target %s", Clock(m.block)))
	if m.elapsed >= m.block {
		status = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("block complete, press enter to claim it")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		theme.TitleStyle.Render("FOCUS PROTOCOL ENGAGED"),
		"",
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(m.session.TaskText),
		"",
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorCyan).Render(Clock(m.elapsed)),
		m.bar.ViewAs(ratio),
		status,
		"",
		theme.HelpStyle.Render("enter complete · esc abort"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(min(width-10, 60), 10)
}
