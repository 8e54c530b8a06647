package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/capability"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/router"
	"github.com/nhle/jarvis/internal/state"
	appsync "github.com/nhle/jarvis/internal/sync"
	"github.com/nhle/jarvis/internal/testutil"
	"github.com/nhle/jarvis/internal/ui/command"
	"github.com/nhle/jarvis/internal/ui/focus"
	"github.com/nhle/jarvis/internal/ui/insights"
	"github.com/nhle/jarvis/internal/ui/tasklist"
)

var base = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

type harness struct {
	store    *state.Store
	tones    *testutil.Recorder
	listener *testutil.ScriptedListener
}

func newModel(t *testing.T) (Model, *harness) {
	t.Helper()

	clock := testutil.NewClock(base)
	st, err := state.New(context.Background(), state.Options{
		Blob:         testutil.NewTestStore(t),
		Now:          clock.Now,
		TickInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(st.Close)

	h := &harness{store: st, tones: &testutil.Recorder{}, listener: &testutil.ScriptedListener{}}
	m := New(Deps{
		Store:     st,
		Router:    router.New(router.Config{Store: st, Now: clock.Now}),
		Heartbeat: appsync.New(appsync.Config{Scheduler: st, Now: clock.Now}),
		Listener:  h.listener,
		Tones:     h.tones,
		Now:       clock.Now,
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, h
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_Dashboard(t *testing.T) {
	m := New(Deps{Store: mustStore(t), Router: router.New(router.Config{})})
	assert.Equal(t, "Initializing JARVIS.OS...", m.View())

	m, _ = newModel(t)
	v := m.View()
	assert.Contains(t, v, "JARVIS.OS")
	assert.Contains(t, v, "SCHEDULE")
	assert.Contains(t, v, "LVL 1")
	assert.Contains(t, v, "09:00 AM")
}

func mustStore(t *testing.T) *state.Store {
	t.Helper()
	st, err := state.New(context.Background(), state.Options{})
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func TestSubmit_SchedulesThroughRouter(t *testing.T) {
	m, h := newModel(t)

	m, cmd := update(t, m, command.SubmitMsg("Call Mom tomorrow at 5pm"))
	m = run(t, m, cmd)

	tasks := h.store.Schedule()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Call Mom", tasks[0].Text)
	assert.Contains(t, m.View(), "Scheduled: Call Mom (05:00 PM)")
	assert.Equal(t, []capability.Tone{capability.ToneClick, capability.ToneSuccess}, h.tones.Tones())
}

func TestSubmit_DeleteWithEmptySchedule(t *testing.T) {
	m, _ := newModel(t)

	m, cmd := update(t, m, command.SubmitMsg("delete last task"))
	m = run(t, m, cmd)
	assert.Equal(t, "Nothing to remove", m.flash)
}

func TestPalette(t *testing.T) {
	m, h := newModel(t)

	m, _ = update(t, m, command.PaletteMsg("insights"))
	assert.Equal(t, ViewInsights, m.currentView)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = run(t, m, cmd)
	assert.Equal(t, ViewDashboard, m.currentView)

	m, _ = update(t, m, command.PaletteMsg("warp"))
	assert.Equal(t, ViewDashboard, m.currentView)
	assert.Equal(t, "Unknown command /warp", m.flash)
	assert.Contains(t, h.tones.Tones(), capability.ToneError)

	_, cmd = update(t, m, command.PaletteMsg("quit"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestDashboardKeys(t *testing.T) {
	m, _ := newModel(t)

	m, _ = update(t, m, runes("?"))
	assert.Equal(t, ViewHelp, m.currentView)
	m, _ = update(t, m, runes("?"))
	assert.Equal(t, ViewDashboard, m.currentView)

	m, _ = update(t, m, runes("m"))
	assert.Equal(t, ViewInsights, m.currentView)
	m, _ = update(t, m, insights.CloseMsg{})
	assert.Equal(t, ViewDashboard, m.currentView)

	m, _ = update(t, m, runes("i"))
	assert.True(t, m.commandLine.Focused())
	m, _ = update(t, m, runes("q"))
	assert.Equal(t, ViewDashboard, m.currentView, "q is typed into the command line")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestCompleteTask(t *testing.T) {
	m, h := newModel(t)
	task, err := h.store.AddDraft(model.Draft{Text: "Ship release", IsUrgent: true, IsImportant: true})
	require.NoError(t, err)

	m, cmd := update(t, m, tasklist.CompleteMsg{ID: task.ID})
	m = run(t, m, cmd)

	assert.Empty(t, h.store.Schedule())
	assert.Equal(t, 25, h.store.Profile().XP)
	assert.Equal(t, "Completed: Ship release (+25 XP)", m.flash)

	m, cmd = update(t, m, tasklist.CompleteMsg{ID: task.ID})
	m = run(t, m, cmd)
	assert.Contains(t, m.flash, state.ErrTaskNotFound.Error())
}

func TestFocusSession(t *testing.T) {
	m, h := newModel(t)
	task, err := h.store.AddDraft(model.Draft{Text: "Write report"})
	require.NoError(t, err)

	m, cmd := update(t, m, tasklist.FocusMsg{ID: task.ID})
	m, waiter := update(t, m, cmd())
	assert.Equal(t, ViewFocus, m.currentView)
	assert.NotNil(t, waiter)
	assert.Contains(t, m.View(), "Write report")

	m, _ = update(t, m, focusTickMsg(90*time.Second))
	assert.Contains(t, m.View(), "01:30")

	m, cmd = update(t, m, focus.ExitMsg{Completed: true})
	m = run(t, m, cmd)
	assert.Equal(t, ViewDashboard, m.currentView)
	assert.Len(t, h.store.History(), 1)
	assert.Equal(t, 1, h.store.FocusStats().Sessions)

	ended := make(chan tea.Msg, 1)
	go func() {
		for {
			if msg, ok := waiter().(focusEndedMsg); ok {
				ended <- msg
				return
			}
		}
	}()
	select {
	case msg := <-ended:
		m, _ = update(t, m, msg)
		assert.False(t, m.tickWaiting, "tick reader released")
	case <-time.After(2 * time.Second):
		t.Fatal("tick reader still blocked after the session ended")
	}
}

func TestListen_SubmitsTranscript(t *testing.T) {
	m, h := newModel(t)
	h.listener.Replies = []string{"Buy milk"}

	m, cmd := update(t, m, runes("v"))
	assert.Equal(t, model.StatusListening, h.store.Status())

	m, cmd = update(t, m, cmd())
	assert.Equal(t, model.StatusIdle, h.store.Status())
	assert.Equal(t, "Heard: Buy milk", m.flash)

	m = run(t, m, cmd)
	require.Len(t, h.store.Schedule(), 1)
	assert.Equal(t, "Buy milk", h.store.Schedule()[0].Text)

	m, cmd = update(t, m, runes("v"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Error: voice input is not available here", m.flash)
}

func TestConfigReloaded(t *testing.T) {
	m, h := newModel(t)

	cfg := model.DefaultAppConfig()
	cfg.Display.Personality = string(model.PersonalityBrief)
	m, _ = update(t, m, ConfigReloadedMsg{Config: cfg})

	assert.Equal(t, model.PersonalityBrief, h.store.Personality())
	assert.Equal(t, "Configuration reloaded", m.flash)
}

func TestHeartbeatEvents_Refresh(t *testing.T) {
	m, h := newModel(t)
	task, err := h.store.AddDraft(model.Draft{Text: "Call Mom"})
	require.NoError(t, err)

	m, cmd := update(t, m, appsync.DueMsg{Tasks: []model.Task{task}})
	assert.NotNil(t, cmd, "keeps waiting for heartbeat events")
	assert.Equal(t, "Due now: Call Mom", m.flash)
	assert.Contains(t, m.View(), "Call Mom")
}
