package tasklist

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/keys"
	"github.com/nhle/jarvis/internal/model"
)

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func fixture() Model {
	five := time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC)
	m := New(keys.DefaultKeyMap(), 80, 20)
	m.SetData(
		[]model.Task{
			{ID: "a", Text: "Call Mom", Time: "05:00 PM", Instant: &five, Type: model.TypeTask},
			{ID: "b", Text: "Someday", Time: model.TimeTBD, Type: model.TypeTask},
		},
		[]model.Task{{ID: "s", Text: "Perform Daily System Review", Type: model.TypeSuggestion}},
		now,
	)
	return m
}

func emit(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestUpdate_ScheduleActions(t *testing.T) {
	m := fixture()

	_, cmd := m.Update(runes("x"))
	assert.Equal(t, CompleteMsg{ID: "a"}, emit(t, cmd))

	m, _ = m.Update(runes("j"))
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", sel.ID)

	_, cmd = m.Update(runes("d"))
	assert.Equal(t, DeleteMsg{ID: "b"}, emit(t, cmd))
	_, cmd = m.Update(runes("f"))
	assert.Equal(t, FocusMsg{ID: "b"}, emit(t, cmd))

	m, _ = m.Update(runes("j"))
	sel, _ = m.Selected()
	assert.Equal(t, "a", sel.ID, "cursor wraps")
}

func TestUpdate_SuggestionPane(t *testing.T) {
	m := fixture()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, PaneSuggestions, m.Pane())

	_, cmd := m.Update(runes("y"))
	assert.Equal(t, AcceptMsg{ID: "s"}, emit(t, cmd))
	_, cmd = m.Update(runes("n"))
	assert.Equal(t, RejectMsg{ID: "s"}, emit(t, cmd))
	_, cmd = m.Update(runes("x"))
	assert.Nil(t, cmd, "suggestions cannot be completed")

	m.SetData(m.tasks, nil, now)
	assert.Equal(t, PaneSchedule, m.Pane(), "empty suggestion pane falls back")
}

func TestUpdate_EmptyScheduleIgnoresActions(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	_, cmd := m.Update(runes("x"))
	assert.Nil(t, cmd)
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestDueLabel(t *testing.T) {
	five := time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC)
	tomorrow := five.Add(24 * time.Hour)

	assert.Equal(t, "TBD", DueLabel(model.Task{}, now))
	assert.Equal(t, "05:00 PM · 8 hours from now", DueLabel(model.Task{Time: "05:00 PM", Instant: &five}, now))
	assert.Equal(t, "Mon Oct 19 05:00 PM · 1 day from now", DueLabel(model.Task{Time: "05:00 PM", Instant: &tomorrow}, now))
}

func TestView_ShowsBothSections(t *testing.T) {
	v := fixture().View()
	assert.Contains(t, v, "SCHEDULE")
	assert.Contains(t, v, "Call Mom")
	assert.Contains(t, v, "SUGGESTIONS")
	assert.Contains(t, v, "TBD")
}
