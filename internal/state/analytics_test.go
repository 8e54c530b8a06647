package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/model"
)

func TestQuadrants(t *testing.T) {
	f := newFixture(t)
	for _, d := range []model.Draft{
		{Text: "fire", IsUrgent: true, IsImportant: true},
		{Text: "plan", IsImportant: true},
		{Text: "ping", IsUrgent: true},
		{Text: "tidy"},
		{Text: "tidy more"},
	} {
		_, err := f.store.AddDraft(d)
		require.NoError(t, err)
	}

	q := f.store.Quadrants()
	assert.Equal(t, []string{"fire"}, texts(q[model.QuadrantDoFirst]))
	assert.Equal(t, []string{"plan"}, texts(q[model.QuadrantSchedule]))
	assert.Equal(t, []string{"ping"}, texts(q[model.QuadrantDelegate]))
	assert.Equal(t, []string{"tidy", "tidy more"}, texts(q[model.QuadrantEliminate]))
}

func TestVelocity_LastSevenDays(t *testing.T) {
	f := newFixture(t)

	complete := func(when time.Time) {
		f.clock.Set(when)
		task, err := f.store.AddDraft(model.Draft{Text: "x"})
		require.NoError(t, err)
		f.store.CompleteTask(task.ID)
	}
	complete(base.AddDate(0, 0, -10))
	complete(base.AddDate(0, 0, -6))
	complete(base.AddDate(0, 0, -1))
	complete(base)
	complete(base.Add(time.Hour))

	v := f.store.Velocity(base, 7)
	require.Len(t, v, 7)

	counts := make([]int, len(v))
	for i, d := range v {
		counts[i] = d.Count
	}
	assert.Equal(t, []int{1, 0, 0, 0, 0, 1, 2}, counts)
	assert.Equal(t, "Sun", v[6].Label)
	assert.Equal(t, "Mon", v[0].Label)

	assert.Nil(t, f.store.Velocity(base, 0))
}

func TestBriefing_QuestionsInOrder(t *testing.T) {
	f := newFixture(t)

	q, idx, done := f.store.BriefingQuestion()
	assert.False(t, done)
	assert.Equal(t, 0, idx)
	assert.Equal(t, BriefingQuestions[0], q)

	_, err := f.store.SubmitAnswer("  ")
	assert.ErrorIs(t, err, ErrEmptyText)

	for i := range BriefingQuestions {
		finished, err := f.store.SubmitAnswer("7")
		require.NoError(t, err)
		assert.Equal(t, i == len(BriefingQuestions)-1, finished)
	}

	_, _, done = f.store.BriefingQuestion()
	assert.True(t, done)
	assert.True(t, hasLog(f.store.Logs(), "Daily briefing complete"))
	require.Len(t, f.store.TodayAnswers(), len(BriefingQuestions))
	assert.Equal(t, BriefingQuestions[1], f.store.TodayAnswers()[1].Question)

	f.clock.Advance(24 * time.Hour)
	_, idx, done = f.store.BriefingQuestion()
	assert.False(t, done)
	assert.Equal(t, 0, idx)
	assert.Empty(t, f.store.TodayAnswers())
}

func TestEnergyTrend(t *testing.T) {
	f := newFixture(t)

	for _, a := range []string{"3", "8/10", "tired", "9", "5", "6", "7", "10", "4"} {
		// Energy is the first question each day.
		_, err := f.store.SubmitAnswer(a)
		require.NoError(t, err)
		f.clock.Advance(24 * time.Hour)
	}

	assert.Equal(t, []int{0, 9, 5, 6, 7, 10, 4}, f.store.EnergyTrend())
}

func TestLeadingInt(t *testing.T) {
	assert.Equal(t, 8, leadingInt("8/10"))
	assert.Equal(t, 12, leadingInt(" 12 "))
	assert.Equal(t, 0, leadingInt("high"))
	assert.Equal(t, 0, leadingInt(""))
}
