package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/model"
)

func TestEvaluateSuggestions_Rules(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want []string
		time string
	}{
		{name: "morning", now: *at(7, 15), want: []string{"Execute Morning Protocol"}, time: "NOW"},
		{name: "deep work", now: *at(10, 30), want: []string{"Initiate Deep Work Session"}, time: "10:00 AM"},
		{name: "review", now: *at(21, 59), want: []string{"Perform Daily System Review"}, time: "8:00 PM"},
		{name: "before morning", now: *at(5, 59), want: nil},
		{name: "midday", now: *at(12, 0), want: nil},
		{name: "late night", now: *at(22, 0), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			got := f.store.EvaluateSuggestions(tt.now)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, texts(got))
			assert.Equal(t, tt.time, got[0].Time)
			assert.Equal(t, model.TypeSuggestion, got[0].Type)
			assert.Equal(t, tt.want, texts(f.store.Suggestions()))
		})
	}
}

func TestEvaluateSuggestions_Dedup(t *testing.T) {
	f := newFixture(t)

	first := f.store.EvaluateSuggestions(*at(10, 5))
	second := f.store.EvaluateSuggestions(*at(10, 15))

	assert.Len(t, first, 1)
	assert.Empty(t, second)
	assert.Len(t, f.store.Suggestions(), 1)
}

func TestEvaluateSuggestions_MorningSkippedWhenHourIsBusy(t *testing.T) {
	f := newFixture(t)
	f.draft(t, "Run", at(7, 40))

	assert.Empty(t, f.store.EvaluateSuggestions(*at(7, 5)))

	// Tasks on another day do not occupy this hour.
	g := newFixture(t)
	g.draft(t, "Run", ptr(at(7, 40).AddDate(0, 0, 1)))
	assert.Len(t, g.store.EvaluateSuggestions(*at(7, 5)), 1)
}

func TestAcceptSuggestion(t *testing.T) {
	f := newFixture(t)
	sug := f.store.EvaluateSuggestions(*at(20, 10))
	require.Len(t, sug, 1)

	task, ok := f.store.AcceptSuggestion(sug[0].ID)
	require.True(t, ok)

	assert.NotEqual(t, sug[0].ID, task.ID)
	assert.Equal(t, "Perform Daily System Review", task.Text)
	assert.Equal(t, model.TypeTask, task.Type)
	assert.False(t, task.IsUrgent)
	assert.False(t, task.IsImportant)
	assert.Empty(t, f.store.Suggestions())
	assert.Equal(t, []string{"Perform Daily System Review"}, texts(f.store.Schedule()))
	assert.True(t, hasLog(f.store.Logs(), "Suggestion accepted"))

	assert.Empty(t, f.store.EvaluateSuggestions(*at(20, 30)), "text already scheduled")

	_, ok = f.store.AcceptSuggestion(sug[0].ID)
	assert.False(t, ok)
}

func TestRejectSuggestion(t *testing.T) {
	f := newFixture(t)
	sug := f.store.EvaluateSuggestions(*at(10, 0))
	require.Len(t, sug, 1)

	assert.True(t, f.store.RejectSuggestion(sug[0].ID))
	assert.False(t, f.store.RejectSuggestion(sug[0].ID))
	assert.Empty(t, f.store.Suggestions())
	assert.Empty(t, f.store.Schedule())
}
