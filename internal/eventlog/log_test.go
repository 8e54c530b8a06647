package eventlog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jarvis/internal/model"
)

func TestAppend_NewestFirst(t *testing.T) {
	l := New(0)
	now := time.Date(2026, time.October, 18, 14, 5, 9, 0, time.UTC)

	l.Append("first", model.SeverityInfo, now)
	e := l.Append("second", model.SeverityWarning, now)

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, "first", entries[1].Message)
	assert.Equal(t, "14:05:09", e.Timestamp)
	assert.Equal(t, model.SeverityWarning, e.Severity)
	assert.NotEmpty(t, e.ID)
}

func TestAppend_BoundedToCapacity(t *testing.T) {
	l := New(DefaultCapacity)
	now := time.Now()
	for i := 0; i < 75; i++ {
		l.Append(fmt.Sprintf("event %d", i), model.SeverityInfo, now)
	}

	entries := l.Entries()
	require.Len(t, entries, DefaultCapacity)
	assert.Equal(t, "event 74", entries[0].Message)
	assert.Equal(t, "event 25", entries[len(entries)-1].Message)
}

func TestEntries_ReturnsCopy(t *testing.T) {
	l := New(5)
	l.Append("a", model.SeverityInfo, time.Now())

	entries := l.Entries()
	entries[0].Message = "mutated"

	assert.Equal(t, "a", l.Entries()[0].Message)
}

func TestRestore_Truncates(t *testing.T) {
	l := New(2)
	l.Restore([]model.LogEntry{{Message: "c"}, {Message: "b"}, {Message: "a"}})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Message)
	assert.Equal(t, "b", entries[1].Message)
}
