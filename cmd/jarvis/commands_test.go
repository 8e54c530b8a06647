package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/state"
)

// execute runs the CLI against a private data directory.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--data", filepath.Join(dir, "jarvis.db"),
		"--quiet",
	}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestAddListDone(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "add", "--offline", "Call", "Mom", "tomorrow", "at", "5pm")
	require.NoError(t, err)
	assert.Equal(t, "Scheduled: Call Mom (05:00 PM)\n", out)

	out, err = execute(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Commander · level 1 · 0 XP")
	assert.Contains(t, out, "  1. 05:00 PM")
	assert.Contains(t, out, "Call Mom")

	out, err = execute(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Call Mom", "without a terminal the root command prints the schedule")

	out, err = execute(t, dir, "done", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed: Call Mom (+")

	out, err = execute(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule is clear.")

	out, err = execute(t, dir, "list", "--history")
	require.NoError(t, err)
	assert.Contains(t, out, "Call Mom")
}

func TestRm(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "add", "--offline", "water", "the", "plants")
	require.NoError(t, err)

	_, err = execute(t, dir, "rm", "2")
	assert.ErrorIs(t, err, state.ErrTaskNotFound)

	out, err := execute(t, dir, "rm", "1")
	require.NoError(t, err)
	assert.Equal(t, "Removed: water the plants\n", out)
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "add", "--offline", "Pay rent")
	require.NoError(t, err)

	out, err := execute(t, dir, "export", "-")
	require.NoError(t, err)
	var snap state.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))

	backup := filepath.Join(dir, "backup.json")
	_, err = execute(t, dir, "export", backup)
	require.NoError(t, err)
	_, err = os.Stat(backup)
	require.NoError(t, err)

	_, err = execute(t, dir, "reset")
	assert.EqualError(t, err, "refusing to reset without --yes")

	out, err = execute(t, dir, "reset", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "System reset complete\n", out)

	out, err = execute(t, dir, "import", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 task(s)")

	require.NoError(t, os.WriteFile(backup, []byte("{not json"), 0o600))
	_, err = execute(t, dir, "import", backup)
	assert.Error(t, err)
}

func TestResolveTask(t *testing.T) {
	tasks := []model.Task{{ID: "a", Text: "first"}, {ID: "b", Text: "second"}}

	got, err := resolveTask(tasks, "2")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Text)

	got, err = resolveTask(tasks, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)

	_, err = resolveTask(tasks, "0")
	assert.ErrorIs(t, err, state.ErrTaskNotFound)
	_, err = resolveTask(tasks, "zzz")
	assert.ErrorIs(t, err, state.ErrTaskNotFound)
}

func TestPrintSchedule(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	at := now.Add(3 * time.Hour)

	var b bytes.Buffer
	printSchedule(&b, []model.Task{
		{Text: "Standup", Time: "12:00 PM", Instant: &at, IsUrgent: true, Type: model.TypeConflict},
		{Text: "Read a book", Time: model.TimeTBD},
	}, now)

	assert.Equal(t,
		"  1. 12:00 PM (3 hours from now)  Standup [conflict, urgent]\n"+
			"  2. TBD                          Read a book\n",
		b.String())
}
