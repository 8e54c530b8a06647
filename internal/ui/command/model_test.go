package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Msg) {
	m, cmd := m.Update(tea.KeyMsg{Type: k})
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestSubmitAndPalette(t *testing.T) {
	m := New(60)
	m.Focus()

	m = typeText(m, "  Call Mom tomorrow  ")
	m, msg := press(m, tea.KeyEnter)
	assert.Equal(t, SubmitMsg("Call Mom tomorrow"), msg)

	m = typeText(m, "/Settings")
	m, msg = press(m, tea.KeyEnter)
	assert.Equal(t, PaletteMsg("settings"), msg)

	_, msg = press(m, tea.KeyEnter)
	assert.Nil(t, msg, "empty input submits nothing")
}

func TestRecall(t *testing.T) {
	m := New(60)
	m.Focus()

	for _, s := range []string{"first", "second", "second"} {
		m = typeText(m, s)
		m, _ = press(m, tea.KeyEnter)
	}
	require.Len(t, m.history, 2, "repeated entries are stored once")

	m, _ = press(m, tea.KeyUp)
	m, _ = press(m, tea.KeyUp)
	m, _ = press(m, tea.KeyUp)
	m, msg := press(m, tea.KeyEnter)
	assert.Equal(t, SubmitMsg("first"), msg)

	m, _ = press(m, tea.KeyUp)
	m, _ = press(m, tea.KeyDown)
	_, msg = press(m, tea.KeyEnter)
	assert.Nil(t, msg, "stepping past the newest entry clears the input")
}

func TestEscBlurs(t *testing.T) {
	m := New(60)
	m.Focus()
	m = typeText(m, "half typed")

	m, msg := press(m, tea.KeyEsc)
	assert.Equal(t, CancelMsg{}, msg)
	assert.False(t, m.Focused())
}
