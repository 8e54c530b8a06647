// Package state owns the assistant's mutable state: the schedule,
// suggestions, history, profile, focus session and event log. Every
// operation runs under one mutex and persists the full snapshot.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/nhle/jarvis/internal/capability"
	"github.com/nhle/jarvis/internal/eventlog"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/nlp"
	"github.com/nhle/jarvis/internal/store"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrFocusActive   = errors.New("focus session already active")
	ErrFocusInactive = errors.New("no active focus session")
	ErrNegativeXP    = errors.New("xp amount must be non-negative")
	ErrInvalidImport = errors.New("invalid import")
)

const saveTimeout = 5 * time.Second

// Options configures a Store. Zero values fall back to defaults.
type Options struct {
	Blob     store.BlobStore
	Speaker  capability.Speaker
	Parser   *nlp.Parser
	Now      func() time.Time
	Schedule model.ScheduleConfig

	// TickInterval is the focus display cadence.
	TickInterval time.Duration
}

// Store is the single owner of assistant state.
type Store struct {
	mu sync.Mutex

	blob     store.BlobStore
	speaker  capability.Speaker
	parser   *nlp.Parser
	now      func() time.Time
	window   time.Duration
	credit   int
	histCap  int
	tickRate time.Duration

	profile     model.Profile
	schedule    []model.Task
	suggestions []model.Task
	history     []model.HistoryEntry
	logs        *eventlog.Log
	focusStats  model.FocusStats
	personality model.Personality
	answers     []model.DailyAnswer

	status    model.Status
	focus     model.FocusSession
	focusStop chan struct{}
	ticks     chan time.Duration
}

// New builds a Store and loads the persisted snapshot, if any. A corrupt
// snapshot is logged and replaced by the default state.
func New(ctx context.Context, opts Options) (*Store, error) {
	s := &Store{
		blob:     opts.Blob,
		speaker:  opts.Speaker,
		parser:   opts.Parser,
		now:      opts.Now,
		window:   time.Duration(opts.Schedule.ConflictWindowMin) * time.Minute,
		credit:   opts.Schedule.FocusCreditMin,
		histCap:  opts.Schedule.HistoryLimit,
		tickRate: opts.TickInterval,
	}
	if s.speaker == nil {
		s.speaker = capability.Nop{}
	}
	if s.parser == nil {
		s.parser = nlp.NewParser()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.window <= 0 {
		s.window = 30 * time.Minute
	}
	if s.credit <= 0 {
		s.credit = 25
	}
	if s.histCap <= 0 {
		s.histCap = 100
	}
	if s.tickRate <= 0 {
		s.tickRate = time.Second
	}
	s.resetLocked()

	if s.blob == nil {
		return s, nil
	}

	data, err := s.blob.Load(ctx, store.SnapshotKey)
	if errors.Is(err, store.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		slog.Error("discarding unreadable snapshot", "error", err)
		return s, nil
	}
	s.applyLocked(snap)
	return s, nil
}

// Close stops the focus ticker.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTickerLocked()
}

// resetLocked installs the default state.
func (s *Store) resetLocked() {
	s.stopTickerLocked()
	s.profile = model.DefaultProfile()
	s.schedule = []model.Task{}
	s.suggestions = []model.Task{}
	s.history = []model.HistoryEntry{}
	s.logs = eventlog.New(eventlog.DefaultCapacity)
	s.focusStats = model.FocusStats{}
	s.personality = model.PersonalityStandard
	s.answers = []model.DailyAnswer{}
	s.status = model.StatusIdle
	s.focus = model.FocusSession{}
}

// logLocked appends an event log entry.
func (s *Store) logLocked(message string, sev model.Severity) {
	s.logs.Append(message, sev, s.now())
}

// commitLocked persists the full snapshot. Failures are logged only.
func (s *Store) commitLocked() {
	if s.blob == nil {
		return
	}

	data, err := encodeSnapshot(s.snapshotLocked(), false)
	if err != nil {
		slog.Error("encoding snapshot", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.blob.Save(ctx, store.SnapshotKey, data); err != nil {
		slog.Error("persisting snapshot", "error", err)
	}
}

// speak runs outside the lock.
func (s *Store) speak(text string) {
	s.mu.Lock()
	rate := s.personality.SpeechRate()
	s.mu.Unlock()
	s.speaker.Speak(text, rate)
}

// sortSchedule orders scheduled tasks by instant and keeps unscheduled
// tasks after them in insertion order.
func sortSchedule(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].Instant, tasks[j].Instant
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

func indexOf(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func containsText(tasks []model.Task, text string) bool {
	for i := range tasks {
		if tasks[i].Text == text {
			return true
		}
	}
	return false
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}

// Schedule returns a copy of the sorted schedule.
func (s *Store) Schedule() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.schedule)
}

// Suggestions returns a copy of the pending suggestions.
func (s *Store) Suggestions() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.suggestions)
}

// History returns completed tasks, most recent first.
func (s *Store) History() []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.HistoryEntry, len(s.history))
	for i, h := range s.history {
		h.Task = h.Task.Clone()
		out[i] = h
	}
	return out
}

func (s *Store) Profile() model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Store) Logs() []model.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.Entries()
}

func (s *Store) FocusStats() model.FocusStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusStats
}

func (s *Store) Status() model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus updates the transient system status. It is not persisted.
func (s *Store) SetStatus(st model.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

func (s *Store) Personality() model.Personality {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personality
}

// SetPersonality changes the response style and persists it.
func (s *Store) SetPersonality(p model.Personality) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == s.personality {
		return
	}
	s.personality = p
	s.logLocked(fmt.Sprintf("Personality mode set to %s", p), model.SeverityInfo)
	s.commitLocked()
}

// Log appends an event from outside the store, such as router fallbacks.
func (s *Store) Log(message string, sev model.Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logLocked(message, sev)
	s.commitLocked()
}
