// Package briefing is the daily alignment questionnaire panel.
package briefing

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/theme"
)

// AnswerMsg carries the user's answer to the current question.
type AnswerMsg struct {
	Text string
}

// CloseMsg signals the parent to close the panel.
type CloseMsg struct{}

// State is what the panel shows.
type State struct {
	Question string
	Index    int
	Total    int
	Done     bool
	Answers  []model.DailyAnswer
	Energy   []int
}

// Model is the briefing panel.
type Model struct {
	state    State
	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new briefing panel.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "Your answer..."
	ti.Prompt = "> "
	ti.CharLimit = 300
	ti.Width = width - 6

	vp := viewport.New(width-4, max(height-10, 4))
	vp.Style = lipgloss.NewStyle()

	return Model{input: ti, viewport: vp, width: width, height: height}
}

// SetState replaces the transcript and the pending question.
func (m *Model) SetState(s State) {
	m.state = s
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// Focus gives keyboard focus to the answer input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Update handles messages for the briefing panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.input.Reset()
			return m, func() tea.Msg { return CloseMsg{} }

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.state.Done {
				return m, nil
			}
			m.input.Reset()
			return m, func() tea.Msg { return AnswerMsg{Text: text} }

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Sparkline renders ratings from 0 to 10 as block characters.
func Sparkline(values []int) string {
	const blocks = "▁▂▃▄▅▆▇█"
	levels := []rune(blocks)

	var b strings.Builder
	for _, v := range values {
		v = min(max(v, 0), 10)
		b.WriteRune(levels[v*(len(levels)-1)/10])
	}
	return b.String()
}

func (m Model) renderTranscript() string {
	qStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorCyan)
	aStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	var sections []string
	for _, a := range m.state.Answers {
		sections = append(sections,
			qStyle.Render("JARVIS: ")+a.Question,
			aStyle.Render("You:    ")+a.Answer,
			"",
		)
	}

	if m.state.Done {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("Briefing complete. Have a productive day, sir."))
	} else {
		sections = append(sections, qStyle.Render("JARVIS: ")+m.state.Question)
	}
	return strings.Join(sections, "\n")
}

// View renders the briefing panel.
func (m Model) View() string {
	progress := fmt.Sprintf("question %d of %d", min(m.state.Index+1, m.state.Total), m.state.Total)
	if m.state.Done {
		progress = "complete"
	}

	energy := theme.DimmedStyle.Render("energy trend: no data yet")
	if len(m.state.Energy) > 0 {
		energy = theme.DimmedStyle.Render("energy trend: ") + Sparkline(m.state.Energy)
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-6, 80), 0)))

	parts := []string{
		theme.TitleStyle.Render("DAILY BRIEFING") + theme.DimmedStyle.Render("  "+progress),
		energy,
		"",
		m.viewport.View(),
		sep,
	}
	if !m.state.Done {
		parts = append(parts, m.input.View())
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
	m.viewport.Width = width - 4
	m.viewport.Height = max(height-10, 4)
}
