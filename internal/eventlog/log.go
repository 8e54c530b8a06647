// Package eventlog keeps the bounded, most-recent-first feed of system
// events shown in the logs panel.
package eventlog

import (
	"time"

	"github.com/google/uuid"

	"github.com/nhle/jarvis/internal/model"
)

// DefaultCapacity is the number of entries retained.
const DefaultCapacity = 50

// timestampLayout is the display format of entry timestamps.
const timestampLayout = "15:04:05"

// Log is an append-only list of entries, newest first. When full, the
// oldest entries are dropped from the tail.
//
// Log is not safe for concurrent use; the owning store serializes access.
type Log struct {
	entries  []model.LogEntry
	capacity int
}

// New creates an empty log holding at most capacity entries.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries:  make([]model.LogEntry, 0, capacity),
		capacity: capacity,
	}
}

// Append records a new entry at the head of the log and returns it.
func (l *Log) Append(message string, severity model.Severity, now time.Time) model.LogEntry {
	entry := model.LogEntry{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Timestamp: now.Format(timestampLayout),
		Message:   message,
		Severity:  severity,
	}

	l.entries = append([]model.LogEntry{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	return entry
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []model.LogEntry {
	out := make([]model.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Restore replaces the contents with entries (newest first), keeping only
// the first capacity of them.
func (l *Log) Restore(entries []model.LogEntry) {
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}
	l.entries = make([]model.LogEntry, len(entries), l.capacity)
	copy(l.entries, entries)
}
