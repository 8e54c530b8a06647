// Package config is the settings view: personality, API key linkage,
// backup export/import and hard reset.
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/keys"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/theme"
)

// Mode represents the current state of the settings view.
type Mode int

const (
	ModeMenu         Mode = iota // List of actions
	ModePersonality              // Personality select
	ModeAPIKey                   // API key input
	ModeExport                   // Export path input
	ModeImport                   // Import path input
	ModeConfirmReset             // Hard reset confirmation
)

// DoneMsg signals the settings view should close.
type DoneMsg struct{}

// PersonalityMsg requests a personality change.
type PersonalityMsg struct {
	Personality model.Personality
}

// APIKeyMsg requests storing a key. An empty Key unlinks it.
type APIKeyMsg struct {
	Key string
}

// ExportMsg requests writing a backup to Path.
type ExportMsg struct {
	Path string
}

// ImportMsg requests restoring the backup at Path.
type ImportMsg struct {
	Path string
}

// ResetMsg requests a hard reset.
type ResetMsg struct{}

type menuItem struct {
	label string
	mode  Mode
	// unlink has no form; its mode stays ModeMenu.
	unlink bool
}

var menu = []menuItem{
	{label: "Personality mode", mode: ModePersonality},
	{label: "Link API key", mode: ModeAPIKey},
	{label: "Unlink API key", unlink: true},
	{label: "Export backup", mode: ModeExport},
	{label: "Import backup", mode: ModeImport},
	{label: "Hard reset", mode: ModeConfirmReset},
}

// Model is the Bubble Tea model for the settings UI.
type Model struct {
	mode        Mode
	selectedIdx int
	form        *huh.Form

	// Form field values (huh binds to these)
	fb *formBindings

	personality model.Personality
	keySource   string
	exportPath  string
	statusMsg   string

	keys          *keys.KeyMap
	width, height int
}

type formBindings struct {
	personality string
	apiKey      string
	path        string
	confirm     bool
}

// New creates a new settings view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   ModeMenu,
		fb:     &formBindings{},
		keys:   k,
		width:  width,
		height: height,
	}
}

// Open resets the view to the menu with the current values.
func (m *Model) Open(p model.Personality, keySource, exportPath string) {
	m.mode = ModeMenu
	m.form = nil
	m.personality = p
	m.keySource = keySource
	m.exportPath = exportPath
	m.statusMsg = ""
}

// SetStatus shows transient feedback under the menu.
func (m *Model) SetStatus(s string) {
	m.statusMsg = s
}

// SetKeySource updates where the API key currently comes from.
func (m *Model) SetKeySource(s string) {
	m.keySource = s
}

// Mode returns the current mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.mode == ModeMenu {
		if k, ok := msg.(tea.KeyMsg); ok {
			return m.handleMenuKeys(k)
		}
		return m, nil
	}
	return m.updateForm(msg)
}

// handleMenuKeys processes key events in the menu.
func (m Model) handleMenuKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return DoneMsg{} }

	case key.Matches(msg, m.keys.Down):
		m.selectedIdx = (m.selectedIdx + 1) % len(menu)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.selectedIdx = (m.selectedIdx - 1 + len(menu)) % len(menu)
		return m, nil

	case msg.String() == "enter":
		item := menu[m.selectedIdx]
		if item.unlink {
			return m, func() tea.Msg { return APIKeyMsg{} }
		}
		m.statusMsg = ""
		m.mode = item.mode
		m.form = m.buildForm(item.mode)
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeMenu
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Back) {
		m.mode = ModeMenu
		m.form = nil
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		out := m.submit()
		m.mode = ModeMenu
		m.form = nil
		return m, out
	case huh.StateAborted:
		m.mode = ModeMenu
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// submit turns the completed form into a request for the parent.
func (m Model) submit() tea.Cmd {
	fb := *m.fb
	switch m.mode {
	case ModePersonality:
		return func() tea.Msg { return PersonalityMsg{Personality: model.Personality(fb.personality)} }
	case ModeAPIKey:
		return func() tea.Msg { return APIKeyMsg{Key: strings.TrimSpace(fb.apiKey)} }
	case ModeExport:
		return func() tea.Msg { return ExportMsg{Path: strings.TrimSpace(fb.path)} }
	case ModeImport:
		return func() tea.Msg { return ImportMsg{Path: strings.TrimSpace(fb.path)} }
	case ModeConfirmReset:
		if fb.confirm {
			return func() tea.Msg { return ResetMsg{} }
		}
	}
	return nil
}

func (m *Model) buildForm(mode Mode) *huh.Form {
	m.fb.apiKey = ""
	m.fb.confirm = false

	var field huh.Field
	switch mode {
	case ModePersonality:
		m.fb.personality = string(m.personality)
		field = huh.NewSelect[string]().
			Title("Personality mode").
			Description("Controls reply length and speech rate.").
			Options(
				huh.NewOption("Brief (fast, under ten words)", string(model.PersonalityBrief)),
				huh.NewOption("Standard", string(model.PersonalityStandard)),
				huh.NewOption("Deep (slower, more detail)", string(model.PersonalityDeep)),
			).
			Value(&m.fb.personality)

	case ModeAPIKey:
		field = huh.NewInput().
			Title("API key").
			Description("Stored in the system keyring.").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.apiKey).
			Validate(validateRequired("API key"))

	case ModeExport:
		m.fb.path = m.exportPath
		field = huh.NewInput().
			Title("Export backup to").
			Value(&m.fb.path).
			Validate(validateRequired("Path"))

	case ModeImport:
		m.fb.path = ""
		field = huh.NewInput().
			Title("Import backup from").
			Placeholder("JARVIS_BACKUP_2026-01-01.json").
			Value(&m.fb.path).
			Validate(validateRequired("Path"))

	default:
		field = huh.NewConfirm().
			Title("Hard reset?").
			Description("Erases schedule, history, XP and logs. This cannot be undone.").
			Affirmative("Yes, reset").
			Negative("Cancel").
			Value(&m.fb.confirm)
	}

	return huh.NewForm(huh.NewGroup(field)).WithWidth(m.formWidth())
}

// --- View ---

// View renders the settings UI based on the current mode.
func (m Model) View() string {
	if m.mode != ModeMenu && m.form != nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(theme.TitleStyle.Render("SETTINGS") + "\n\n" + m.form.View())
	}
	return m.viewMenu()
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("SETTINGS"))
	b.WriteString("\n\n")

	for i, item := range menu {
		label := item.label
		switch item.mode {
		case ModePersonality:
			label += theme.DimmedStyle.Render(fmt.Sprintf("  [%s]", m.personality))
		case ModeAPIKey:
			label += theme.DimmedStyle.Render(fmt.Sprintf("  [%s]", m.keySourceLabel()))
		}

		style := theme.ListItemStyle
		if i == m.selectedIdx {
			style = theme.SelectedItemStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Render(m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("enter select · esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) keySourceLabel() string {
	if m.keySource == "" {
		return "not linked, local parser only"
	}
	return "linked via " + m.keySource
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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
