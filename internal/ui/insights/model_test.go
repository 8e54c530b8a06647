package insights

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/keys"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/state"
)

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func TestBars_ScaleToPeak(t *testing.T) {
	out := Bars([]state.DayCount{
		{Label: "Sat", Count: 2},
		{Label: "Sun", Count: 4},
		{Label: "Mon", Count: 0},
	}, 8)

	assert.Equal(t, "Sat ████ 2\nSun ████████ 4\nMon  0\n", out)
	assert.Equal(t, "Sun  0\n", Bars([]state.DayCount{{Label: "Sun"}}, 8), "all zero days")
}

func TestUpdate_CyclesPages(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	assert.Equal(t, PageMatrix, m.Page())

	for _, want := range []Page{PageAnalytics, PageArchive, PageMatrix} {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, want, m.Page())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}

func TestView_Pages(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.SetData(Data{
		Quadrants: map[model.Quadrant][]model.Task{
			model.QuadrantDoFirst: {{Text: "Fix the urgent important bug"}},
		},
		Velocity: []state.DayCount{{Label: "Sun", Count: 1}},
		Profile:  model.Profile{Level: 2, XP: 1250},
		History: []model.HistoryEntry{{
			Task:        model.Task{Text: "Ship it"},
			CompletedAt: now.Add(-2 * time.Hour),
			XPEarned:    25,
		}},
		Now: now,
	})

	assert.Contains(t, m.View(), "Fix the urgent important bug")

	m.page = PageAnalytics
	v := m.View()
	assert.Contains(t, v, "1,250 XP")
	assert.Contains(t, v, "Completed this week: 1")

	m.page = PageArchive
	v = m.View()
	assert.Contains(t, v, "+25")
	assert.Contains(t, v, "2 hours ago")
}
