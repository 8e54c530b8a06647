package briefing

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/model"
)

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁▄█", Sparkline([]int{0, 5, 10}))
	assert.Equal(t, "▁█", Sparkline([]int{-3, 42}), "values are clamped")
	assert.Empty(t, Sparkline(nil))
}

func TestUpdate_SubmitsTrimmedAnswer(t *testing.T) {
	m := New(80, 24)
	m.SetState(State{Question: "Energy?", Total: 4})
	m.Focus()

	m.input.SetValue("  8  ")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, AnswerMsg{Text: "8"}, cmd())
	assert.Empty(t, m.input.Value())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "blank answers are ignored")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}

func TestView_Transcript(t *testing.T) {
	m := New(80, 24)
	m.SetState(State{
		Question: "How many hours did you sleep last night?",
		Index:    1,
		Total:    4,
		Answers:  []model.DailyAnswer{{Question: "Energy?", Answer: "7"}},
		Energy:   []int{7},
	})

	v := m.View()
	assert.Contains(t, v, "question 2 of 4")
	assert.Contains(t, v, "Energy?")
	assert.Contains(t, v, "How many hours")

	m.SetState(State{Done: true, Index: 4, Total: 4})
	assert.Contains(t, m.View(), "Briefing complete")
}
