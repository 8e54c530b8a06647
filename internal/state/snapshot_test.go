package state

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/store"
	"github.com/nhle/jarvis/internal/testutil"
)

func TestExportImport_RoundTrip(t *testing.T) {
	src := newFixture(t)
	src.draft(t, "Call Mom", at(17, 0))
	src.draft(t, "Buy milk", nil)
	done, err := src.store.AddDraft(model.Draft{Text: "Ship", IsUrgent: true, IsImportant: true})
	require.NoError(t, err)
	src.store.CompleteTask(done.ID)
	src.store.UpdateProfile("Tony", 6, 50)

	data, err := src.store.Export()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"user", "schedule", "suggestions", "history", "logs", "focusStats", "dailyAnswers"} {
		assert.Contains(t, raw, key)
	}

	dst := newFixture(t)
	require.NoError(t, dst.store.Import(data))

	assert.Equal(t, src.store.Schedule(), dst.store.Schedule())
	assert.Equal(t, src.store.History(), dst.store.History())
	assert.Equal(t, src.store.Profile(), dst.store.Profile())
	assert.True(t, hasLog(dst.store.Logs(), "System restore complete"))
}

func TestImport_Rejected(t *testing.T) {
	tests := map[string]string{
		"not json":         "{oops",
		"missing user":     `{"schedule": []}`,
		"missing schedule": `{"user": {"name": "Tony", "xp": 10}}`,
		"task without id":  `{"user": {}, "schedule": [{"text": "x"}]}`,
		"negative xp":      `{"user": {"xp": -5}, "schedule": []}`,
		"unknown type":     `{"user": {}, "schedule": [{"id": "1", "text": "x", "type": "work"}]}`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			keep := f.draft(t, "keep me", nil)

			err := f.store.Import([]byte(payload))
			assert.ErrorIs(t, err, ErrInvalidImport)

			sched := f.store.Schedule()
			require.Len(t, sched, 1)
			assert.Equal(t, keep.ID, sched[0].ID)
			assert.True(t, hasLog(f.store.Logs(), "System restore failed"))
		})
	}
}

func TestImport_RecomputesLevelAndFillsDefaults(t *testing.T) {
	f := newFixture(t)

	payload := `{
		"user": {"name": "Tony", "xp": 250, "level": 1},
		"schedule": [
			{"id": "b", "text": "later", "instant": "2026-10-18T18:00:00Z"},
			{"id": "a", "text": "floating"},
			{"id": "c", "text": "sooner", "instant": "2026-10-18T08:00:00Z", "type": "conflict"}
		],
		"personality": "sarcastic"
	}`
	require.NoError(t, f.store.Import([]byte(payload)))

	p := f.store.Profile()
	assert.Equal(t, 250, p.XP)
	assert.Equal(t, 3, p.Level)

	sched := f.store.Schedule()
	assert.Equal(t, []string{"sooner", "later", "floating"}, texts(sched))
	assert.Equal(t, model.TypeConflict, sched[0].Type)
	assert.Equal(t, model.TypeTask, sched[1].Type)
	assert.Equal(t, "06:00 PM", sched[1].Time)
	assert.Equal(t, model.TimeTBD, sched[2].Time)
	assert.Equal(t, model.PersonalityStandard, f.store.Personality())
}

func TestImport_EndsFocusSession(t *testing.T) {
	f := newFixture(t)
	task := f.draft(t, "Write", nil)
	require.NoError(t, f.store.EnterFocus(task.ID))

	require.NoError(t, f.store.Import([]byte(`{"user": {}, "schedule": []}`)))
	assert.False(t, f.store.Focus().Active)
	assert.False(t, f.store.focusRunning())
}

func TestReset(t *testing.T) {
	blob := testutil.NewTestStore(t)
	f := newFixtureWithBlob(t, blob)
	task := f.draft(t, "Write", nil)
	require.NoError(t, f.store.AddXP(500))
	require.NoError(t, f.store.EnterFocus(task.ID))

	require.NoError(t, f.store.Reset(context.Background()))

	assert.Empty(t, f.store.Schedule())
	assert.Empty(t, f.store.Logs())
	assert.Equal(t, model.DefaultProfile(), f.store.Profile())
	assert.False(t, f.store.Focus().Active)
	assert.False(t, f.store.focusRunning())

	_, err := blob.Load(context.Background(), store.SnapshotKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBackupFileName(t *testing.T) {
	day := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "JARVIS_BACKUP_2026-10-18.json", BackupFileName(day))
}
