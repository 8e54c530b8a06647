package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_FileIsJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	day := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	l, err := New(Config{Level: "warn", Dir: dir}, day)
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", "task", "Call Mom")
	require.NoError(t, l.Close())

	assert.Equal(t, filepath.Join(dir, "jarvis_2026-10-18.log"), l.Path())
	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec), "exactly one JSON record")
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "Call Mom", rec["task"])
	assert.Equal(t, "jarvis", rec["service"])
}

func TestNew_Stderr(t *testing.T) {
	l, err := New(Config{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, l.Path())
	assert.NoError(t, l.Close())
}

func TestNew_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := New(Config{Dir: file}, time.Now())
	assert.Error(t, err)
}
