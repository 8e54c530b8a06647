package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/theme"
)

// SubmitMsg carries free text for the interpretation router.
type SubmitMsg string

// PaletteMsg carries a slash command without its leading slash.
type PaletteMsg string

// CancelMsg is emitted when the user leaves the command line.
type CancelMsg struct{}

// maxHistory bounds the recall buffer.
const maxHistory = 20

// Model is the command line.
type Model struct {
	input   textinput.Model
	history []string
	recall  int
	width   int
}

// New creates a new command line model.
func New(width int) Model {
	ti := textinput.New()
	ti.Placeholder = "Tell JARVIS what to do..."
	ti.Prompt = "❯ "
	ti.CharLimit = 500
	ti.Width = width - 6

	return Model{input: ti, recall: -1, width: width}
}

// Update handles messages for the command line.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.input.Reset()
			m.input.Blur()
			return m, func() tea.Msg { return CancelMsg{} }

		case "up":
			m.step(1)
			return m, nil

		case "down":
			m.step(-1)
			return m, nil

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.recall = -1
			if text == "" {
				return m, nil
			}
			m.remember(text)
			if name, ok := strings.CutPrefix(text, "/"); ok {
				return m, func() tea.Msg { return PaletteMsg(strings.ToLower(name)) }
			}
			return m, func() tea.Msg { return SubmitMsg(text) }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) remember(text string) {
	if n := len(m.history); n > 0 && m.history[n-1] == text {
		return
	}
	m.history = append(m.history, text)
	if len(m.history) > maxHistory {
		m.history = m.history[1:]
	}
}

// step walks the recall buffer; 1 is older, -1 newer.
func (m *Model) step(dir int) {
	if len(m.history) == 0 {
		return
	}
	next := m.recall + dir
	if next < 0 {
		m.recall = -1
		m.input.SetValue("")
		return
	}
	if next >= len(m.history) {
		next = len(m.history) - 1
	}
	m.recall = next
	m.input.SetValue(m.history[len(m.history)-1-next])
	m.input.CursorEnd()
}

// View renders the command line.
func (m Model) View() string {
	style := theme.PanelStyle
	if m.input.Focused() {
		style = theme.ActivePanelStyle
	}
	return style.Width(m.width - 2).Render(
		lipgloss.NewStyle().Foreground(theme.ColorWhite).Render(m.input.View()),
	)
}

// SetWidth updates the command line width.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.recall = -1
	return m.input.Focus()
}

// Focused reports whether the command line has keyboard focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}
