package profile

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/theme"
)

// SavedMsg is dispatched when the profile form is submitted.
type SavedMsg struct {
	Name       string
	SleepGoal  float64
	FocusBlock int
}

// CancelMsg is dispatched when the user leaves the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name       string
	sleepGoal  string
	focusBlock string
}

// Model is the Bubble Tea model for the identity profile form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	xp     int
	level  int
	width  int
	height int
}

// New creates a new profile form model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start fills the form from the current profile.
func (m *Model) Start(p model.Profile) tea.Cmd {
	m.fb.name = p.Name
	m.fb.sleepGoal = strconv.FormatFloat(p.SleepGoal, 'f', -1, 64)
	m.fb.focusBlock = strconv.Itoa(p.FocusBlock)
	m.xp = p.XP
	m.level = p.Level
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the profile form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.handleSubmit()
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the profile form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	header := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.TitleStyle.Render("IDENTITY PROFILE"),
		theme.DimmedStyle.Render(fmt.Sprintf("Level %d · %d XP (progression is earned, not edited)", m.level, m.xp)),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(header + "\n\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("How should JARVIS address you?").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Sleep goal (hours)").
				Value(&m.fb.sleepGoal).
				Validate(validateFloat(1, 16)),
			huh.NewInput().
				Title("Focus block (minutes)").
				Value(&m.fb.focusBlock).
				Validate(validateInt(5, 240)),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

func (m Model) handleSubmit() tea.Cmd {
	sleep, _ := strconv.ParseFloat(strings.TrimSpace(m.fb.sleepGoal), 64)
	block, _ := strconv.Atoi(strings.TrimSpace(m.fb.focusBlock))
	saved := SavedMsg{
		Name:       strings.TrimSpace(m.fb.name),
		SleepGoal:  sleep,
		FocusBlock: block,
	}
	return func() tea.Msg { return saved }
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 80)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateFloat(lo, hi float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || v < lo || v > hi {
			return fmt.Errorf("enter a number between %g and %g", lo, hi)
		}
		return nil
	}
}

func validateInt(lo, hi int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || v < lo || v > hi {
			return fmt.Errorf("enter a whole number between %d and %d", lo, hi)
		}
		return nil
	}
}
