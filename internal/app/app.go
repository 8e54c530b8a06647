package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/ai"
	"github.com/nhle/jarvis/internal/capability"
	"github.com/nhle/jarvis/internal/keys"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/router"
	"github.com/nhle/jarvis/internal/state"
	appsync "github.com/nhle/jarvis/internal/sync"
	"github.com/nhle/jarvis/internal/theme"
	"github.com/nhle/jarvis/internal/ui"
	"github.com/nhle/jarvis/internal/ui/briefing"
	"github.com/nhle/jarvis/internal/ui/command"
	settingsview "github.com/nhle/jarvis/internal/ui/config"
	"github.com/nhle/jarvis/internal/ui/detail"
	"github.com/nhle/jarvis/internal/ui/focus"
	helpview "github.com/nhle/jarvis/internal/ui/help"
	"github.com/nhle/jarvis/internal/ui/insights"
	"github.com/nhle/jarvis/internal/ui/profile"
	"github.com/nhle/jarvis/internal/ui/tasklist"
)

// clockInterval refreshes relative due labels and the header clock.
const clockInterval = 30 * time.Second

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewHelp
	ViewFocus
	ViewProfile
	ViewSettings
	ViewBriefing
	ViewInsights
)

// ConfigReloadedMsg carries a configuration re-read from disk.
type ConfigReloadedMsg struct {
	Config *model.AppConfig
}

// clockMsg fires every clockInterval.
type clockMsg time.Time

// Deps wires the root model to the assistant core.
type Deps struct {
	Store      *state.Store
	Router     *router.Router
	Heartbeat  *appsync.Heartbeat
	Listener   capability.Listener
	Tones      capability.Tones
	Config     *model.AppConfig
	ConfigPath string
	// KeySource describes where the API key came from, empty if unset.
	KeySource string
	Now       func() time.Time
}

// Model is the root Bubble Tea model that manages view routing, layout
// and access to the assistant state.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	store      *state.Store
	router     *router.Router
	heartbeat  *appsync.Heartbeat
	listener   capability.Listener
	tones      capability.Tones
	cfg        *model.AppConfig
	configPath string
	keySource  string
	now        func() time.Time

	taskList     tasklist.Model
	detail       detail.Model
	commandLine  command.Model
	helpView     helpview.Model
	focusView    focus.Model
	profileView  profile.Model
	settingsView settingsview.Model
	briefingView briefing.Model
	insightsView insights.Model

	ready       bool
	listening   bool
	tickWaiting bool
	flash       string
}

// New creates the root application model.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView:  ViewDashboard,
		keys:         k,
		store:        d.Store,
		router:       d.Router,
		heartbeat:    d.Heartbeat,
		listener:     d.Listener,
		tones:        d.Tones,
		cfg:          d.Config,
		configPath:   d.ConfigPath,
		keySource:    d.KeySource,
		now:          d.Now,
		taskList:     tasklist.New(k, 80, 24),
		detail:       detail.New(28, 24),
		commandLine:  command.New(80),
		helpView:     helpview.New(k, 80, 24),
		focusView:    focus.New(80, 24),
		profileView:  profile.New(80, 24),
		settingsView: settingsview.New(k, 80, 24),
		briefingView: briefing.New(80, 24),
		insightsView: insights.New(k, 80, 24),
	}
	if m.listener == nil {
		m.listener = capability.Nop{}
	}
	if m.tones == nil {
		m.tones = capability.Nop{}
	}
	if m.cfg == nil {
		m.cfg = model.DefaultAppConfig()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.refresh()
	return m
}

// Init starts the heartbeat and the display clock.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickClock()}
	if m.heartbeat != nil {
		cmds = append(cmds, m.heartbeat.Start())
	}
	return tea.Batch(cmds...)
}

func tickClock() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg { return clockMsg(t) })
}

// refresh pulls the current state into the visible sub-views.
func (m *Model) refresh() {
	now := m.now()
	m.taskList.SetData(m.store.Schedule(), m.store.Suggestions(), now)
	m.detail.SetData(m.store.Profile(), m.store.FocusStats(), m.store.Logs())

	switch m.currentView {
	case ViewInsights:
		m.insightsView.SetData(m.insightsData())
	case ViewBriefing:
		m.briefingView.SetState(m.briefingState())
	}
}

func (m Model) insightsData() insights.Data {
	now := m.now()
	return insights.Data{
		Quadrants: m.store.Quadrants(),
		Velocity:  m.store.Velocity(now, 7),
		Profile:   m.store.Profile(),
		Focus:     m.store.FocusStats(),
		History:   m.store.History(),
		Now:       now,
	}
}

func (m Model) briefingState() briefing.State {
	q, idx, done := m.store.BriefingQuestion()
	return briefing.State{
		Question: q,
		Index:    idx,
		Total:    len(state.BriefingQuestions),
		Done:     done,
		Answers:  m.store.TodayAnswers(),
		Energy:   m.store.EnergyTrend(),
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.ready = true
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case clockMsg:
		m.refresh()
		return m, tickClock()

	case appsync.DueMsg:
		m.refresh()
		if len(msg.Tasks) > 0 {
			m.flash = "Due now: " + msg.Tasks[0].Text
		}
		return m, m.heartbeat.WaitForNextEvent()

	case appsync.SuggestionsMsg:
		m.refresh()
		m.flash = fmt.Sprintf("%d new suggestion(s), tab to review", len(msg.Tasks))
		return m, m.heartbeat.WaitForNextEvent()

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		m.flash = "Configuration reloaded"
		m.refresh()
		return m, nil

	case command.SubmitMsg:
		m.tones.Play(capability.ToneClick)
		return m, m.submit(string(msg))

	case command.PaletteMsg:
		return m.executeCommand(string(msg))

	case command.CancelMsg:
		return m, nil

	case outcomeMsg:
		m.handleOutcome(msg.out)
		m.refresh()
		return m, nil

	case transcriptMsg:
		return m.handleTranscript(msg)

	case storeChangedMsg:
		m.handleResult(msg.flash, msg.err)
		m.refresh()
		return m, nil

	case tasklist.CompleteMsg:
		return m, m.completeTask(msg.ID)

	case tasklist.DeleteMsg:
		return m, m.removeTask(msg.ID)

	case tasklist.AcceptMsg:
		return m, m.acceptSuggestion(msg.ID)

	case tasklist.RejectMsg:
		return m, m.rejectSuggestion(msg.ID)

	case tasklist.FocusMsg:
		return m, m.enterFocus(msg.ID)

	case focusStartedMsg:
		if msg.err != nil {
			m.handleResult("", msg.err)
			return m, nil
		}
		m.tones.Play(capability.ToneClick)
		m.focusView.Start(m.store.Focus(), m.store.Profile().FocusBlock)
		m.openView(ViewFocus)
		m.refresh()
		cmd := m.waitForTick()
		return m, cmd

	case focusTickMsg:
		m.tickWaiting = false
		if m.currentView != ViewFocus || !m.store.Focus().Active {
			return m, nil
		}
		m.focusView.SetElapsed(time.Duration(msg))
		cmd := m.waitForTick()
		return m, cmd

	case focusEndedMsg:
		m.tickWaiting = false
		return m, nil

	case focus.ExitMsg:
		m.currentView = ViewDashboard
		return m, m.exitFocus(msg.Completed)

	case profile.SavedMsg:
		m.currentView = m.previousView
		return m, m.saveProfile(msg)

	case profile.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case settingsview.DoneMsg:
		m.currentView = m.previousView
		m.refresh()
		return m, nil

	case settingsview.PersonalityMsg:
		return m, m.setPersonality(msg.Personality)

	case settingsview.APIKeyMsg:
		return m, m.linkAPIKey(msg.Key)

	case settingsview.ExportMsg:
		return m, m.exportBackup(msg.Path)

	case settingsview.ImportMsg:
		return m, m.importBackup(msg.Path)

	case settingsview.ResetMsg:
		return m, m.hardReset()

	case settingsResultMsg:
		m.handleResult(msg.status, msg.err)
		if msg.err == nil {
			m.settingsView.SetStatus(msg.status)
		} else {
			m.settingsView.SetStatus("Error: " + msg.err.Error())
		}
		m.refresh()
		return m, nil

	case keyLinkedMsg:
		m.keySource = msg.source
		m.settingsView.SetKeySource(msg.source)
		if msg.err != nil {
			m.settingsView.SetStatus("Error: " + msg.err.Error())
			m.handleResult("", msg.err)
		} else if msg.source == "" {
			m.settingsView.SetStatus("API key unlinked. Local parsing only.")
		} else {
			m.settingsView.SetStatus("API key linked via " + msg.source)
		}
		return m, nil

	case briefing.AnswerMsg:
		return m, m.submitAnswer(msg.Text)

	case briefing.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case insights.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		m.flash = ""
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if m.currentView == ViewDashboard && !m.commandLine.Focused() {
			if next, cmd, ok := m.handleDashboardKey(msg); ok {
				return next, cmd
			}
		}
		if m.currentView == ViewHelp &&
			(key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back)) {
			m.currentView = m.previousView
			return m, nil
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleDashboardKey processes the global shortcuts of the dashboard. ok is
// false when the key belongs to the schedule list.
func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit(), true

	case key.Matches(msg, m.keys.Help):
		m.openView(ViewHelp)
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		cmd := m.commandLine.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.Listen):
		if m.listening {
			m.listener.Stop()
			return m, nil, true
		}
		m.listening = true
		m.store.SetStatus(model.StatusListening)
		m.tones.Play(capability.ToneClick)
		return m, m.listen(), true

	case msg.String() == "pgup" || msg.String() == "pgdown":
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd, true
	}

	for _, v := range []struct {
		binding key.Binding
		view    ViewState
	}{
		{m.keys.Profile, ViewProfile},
		{m.keys.Settings, ViewSettings},
		{m.keys.Briefing, ViewBriefing},
		{m.keys.Insights, ViewInsights},
	} {
		if key.Matches(msg, v.binding) {
			next, cmd := m.open(v.view)
			return next, cmd, true
		}
	}
	return m, nil, false
}

func (m *Model) openView(v ViewState) {
	if m.currentView != v {
		m.previousView = m.currentView
	}
	m.currentView = v
}

// open switches to a secondary view and prepares its content.
func (m Model) open(v ViewState) (tea.Model, tea.Cmd) {
	m.openView(v)
	m.tones.Play(capability.ToneHover)

	switch v {
	case ViewProfile:
		cmd := m.profileView.Start(m.store.Profile())
		return m, cmd
	case ViewSettings:
		m.settingsView.Open(m.store.Personality(), m.keySource, state.BackupFileName(m.now()))
		return m, nil
	case ViewBriefing:
		m.briefingView.SetState(m.briefingState())
		cmd := m.briefingView.Focus()
		return m, cmd
	case ViewInsights:
		m.insightsView.SetData(m.insightsData())
		return m, nil
	}
	return m, nil
}

// executeCommand handles a slash command from the command line.
func (m Model) executeCommand(name string) (tea.Model, tea.Cmd) {
	switch name {
	case "quit", "q", "exit":
		return m, m.quit()
	case "help":
		m.openView(ViewHelp)
		return m, nil
	case "profile":
		return m.open(ViewProfile)
	case "settings", "config":
		return m.open(ViewSettings)
	case "briefing", "brief":
		return m.open(ViewBriefing)
	case "insights", "matrix", "analytics":
		return m.open(ViewInsights)
	default:
		m.tones.Play(capability.ToneError)
		m.flash = fmt.Sprintf("Unknown command /%s", name)
		return m, nil
	}
}

func (m *Model) handleOutcome(out router.Outcome) {
	if out.Err != nil {
		m.handleResult("", out.Err)
		return
	}

	switch {
	case out.Task != nil && out.Intent == ai.IntentDelete:
		m.flash = "Removed: " + out.Task.Text
	case out.Task != nil && out.Task.Type == model.TypeConflict:
		m.flash = fmt.Sprintf("Scheduled with conflict: %s (%s)", out.Task.Text, out.Task.Time)
	case out.Task != nil:
		m.flash = fmt.Sprintf("Scheduled: %s (%s)", out.Task.Text, out.Task.Time)
	case out.Intent == ai.IntentDelete:
		m.flash = "Nothing to remove"
	}
	if out.Response != "" {
		m.flash = out.Response
	}

	if out.Task != nil || out.Response != "" {
		m.tones.Play(capability.ToneSuccess)
	}
}

func (m Model) handleTranscript(msg transcriptMsg) (tea.Model, tea.Cmd) {
	m.listening = false
	m.store.SetStatus(model.StatusIdle)

	if msg.err != nil {
		m.handleResult("", msg.err)
		return m, nil
	}
	if strings.TrimSpace(msg.text) == "" {
		m.flash = "Heard nothing"
		return m, nil
	}
	m.flash = "Heard: " + msg.text
	return m, m.submit(msg.text)
}

// handleResult shows feedback for a finished action.
func (m *Model) handleResult(flash string, err error) {
	if err != nil {
		m.tones.Play(capability.ToneError)
		m.flash = "Error: " + err.Error()
		return
	}
	if flash != "" {
		m.tones.Play(capability.ToneSuccess)
		m.flash = flash
	}
}

func (m *Model) applyConfig(cfg *model.AppConfig) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.store.SetPersonality(model.Personality(cfg.Display.Personality))
	m.router.SetTimeout(cfg.AI.Timeout())
	theme.Apply(cfg.Display.Theme)
}

func (m Model) quit() tea.Cmd {
	if m.heartbeat != nil {
		m.heartbeat.Stop()
	}
	m.listener.Stop()
	return tea.Quit
}

func (m *Model) resize(width, height int) {
	m.layout = ui.NewLayout(width, height)
	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
	main, side := m.layout.Columns()

	m.taskList.SetSize(main, h-3)
	m.commandLine.SetWidth(main)
	m.detail.SetSize(side, h)
	m.helpView.SetSize(w, h)
	m.focusView.SetSize(w, h)
	m.profileView.SetSize(w, h)
	m.settingsView.SetSize(w, h)
	m.briefingView.SetSize(w, h)
	m.insightsView.SetSize(w, h)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		if m.commandLine.Focused() {
			m.commandLine, cmd = m.commandLine.Update(msg)
		} else {
			m.taskList, cmd = m.taskList.Update(msg)
		}
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewFocus:
		m.focusView, cmd = m.focusView.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewBriefing:
		m.briefingView, cmd = m.briefingView.Update(msg)
	case ViewInsights:
		m.insightsView, cmd = m.insightsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Initializing JARVIS.OS..."
	}

	header := m.layout.RenderHeader("JARVIS.OS", m.headerStatus())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.flash)
	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewFocus:
		return m.focusView.View()
	case ViewProfile:
		return m.profileView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewBriefing:
		return m.briefingView.View()
	case ViewInsights:
		return m.insightsView.View()
	default:
		left := lipgloss.JoinVertical(lipgloss.Left, m.taskList.View(), m.commandLine.View())
		return lipgloss.JoinHorizontal(lipgloss.Top, left, m.detail.View())
	}
}

func (m Model) headerStatus() string {
	p := m.store.Profile()
	st := m.store.Status()
	mode := "local"
	if m.router.HasInterpreter() {
		mode = "ai"
	}
	return fmt.Sprintf("LVL %d · %d XP · %s · %s · %s",
		p.Level, p.XP, mode,
		theme.StatusStyle(st).Render(strings.ToUpper(string(st))),
		m.now().Format(model.TimeLayout),
	)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewFocus:
		return "enter complete | esc abort"
	case ViewProfile:
		return "enter next | esc cancel"
	case ViewSettings:
		return "j/k move | enter select | esc back"
	case ViewBriefing:
		return "enter answer | pgup/pgdown scroll | esc close"
	case ViewInsights:
		return "tab next page | esc back"
	}

	if m.commandLine.Focused() {
		return "enter send | up/down history | /help commands | esc cancel"
	}
	if m.taskList.Pane() == tasklist.PaneSuggestions {
		return "y accept | n reject | tab schedule | q quit"
	}
	return "i command | v voice | x done | d delete | f focus | tab suggestions | ? help | q quit"
}
