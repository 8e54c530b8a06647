package focus

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/model"
)

func TestClock(t *testing.T) {
	assert.Equal(t, "00:00", Clock(0))
	assert.Equal(t, "01:30", Clock(90*time.Second+400*time.Millisecond))
	assert.Equal(t, "45:00", Clock(45*time.Minute))
	assert.Equal(t, "1:02:03", Clock(time.Hour+2*time.Minute+3*time.Second))
}

func TestUpdate_ExitKeys(t *testing.T) {
	m := New(80, 24)
	m.Start(model.FocusSession{Active: true, TaskText: "Write report"}, 45)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ExitMsg{Completed: true}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ExitMsg{Completed: false}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd)
}

func TestView(t *testing.T) {
	m := New(80, 24)
	m.SetSize(80, 24)
	m.Start(model.FocusSession{Active: true, TaskText: "Write report"}, 1)
	m.SetElapsed(75 * time.Second)

	v := m.View()
	assert.Contains(t, v, "Write report")
	assert.Contains(t, v, "01:15")
	assert.Contains(t, v, "block complete")
}
