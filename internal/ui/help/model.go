package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/keys"
	"github.com/nhle/jarvis/internal/theme"
)

// commandHints lists what the command line understands besides free text.
var commandHints = []string{
	"Call Mom tomorrow at 5pm    schedule a task",
	"delete that                 remove the most recent task",
	"/profile /settings /briefing /insights /quit",
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{keys: k, help: h, width: width, height: height}
}

// Update is a no-op; the parent closes the overlay.
func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	hints := ""
	for _, h := range commandHints {
		hints += theme.DimmedStyle.Render("  "+h) + "\n"
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.TitleStyle.MarginBottom(1).Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		theme.TitleStyle.Render("Commands"),
		hints,
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
