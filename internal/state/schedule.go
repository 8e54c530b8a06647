package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/nlp"
)

// ErrEmptyText is returned when a command or answer has no content.
var ErrEmptyText = errors.New("text is empty")

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// AddTask parses raw input, classifies it by keyword and inserts it.
func (s *Store) AddTask(raw string) (model.Task, error) {
	if strings.TrimSpace(raw) == "" {
		return model.Task{}, ErrEmptyText
	}
	d := s.parser.Parse(raw, s.now())
	d.IsUrgent, d.IsImportant = nlp.Classify(d.Text)
	return s.AddDraft(d)
}

// AddDraft inserts a pre-structured item with its flags taken as given.
func (s *Store) AddDraft(d model.Draft) (model.Task, error) {
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}

	s.mu.Lock()
	t := model.Task{
		ID:          newID(),
		Text:        text,
		Type:        model.TypeTask,
		Time:        model.TimeTBD,
		IsUrgent:    d.IsUrgent,
		IsImportant: d.IsImportant,
		CreatedAt:   s.now(),
	}
	if d.Instant != nil {
		in := d.Instant.Truncate(time.Minute)
		t.Instant = &in
		t.Time = d.Time
		if t.Time == "" {
			t.Time = in.Format(model.TimeLayout)
		}
	}

	t, clash := s.insertLocked(t)
	s.logLocked(fmt.Sprintf("Task created: %s [%s]", t.Text, t.Time), model.SeveritySuccess)
	s.commitLocked()
	s.mu.Unlock()

	if clash != nil {
		s.speak(conflictWarning(t, *clash))
	}
	return t.Clone(), nil
}

func conflictWarning(t, other model.Task) string {
	return fmt.Sprintf("Warning, sir. %s overlaps with %s.", t.Text, other.Text)
}

// insertLocked classifies t against the current schedule, appends it and
// re-sorts. It returns the stored task and the first task it collides with.
func (s *Store) insertLocked(t model.Task) (model.Task, *model.Task) {
	clash := s.conflictLocked(t.Instant)
	if clash != nil {
		t.Type = model.TypeConflict
		s.logLocked(
			fmt.Sprintf("Conflict detected: %s overlaps %s at %s", t.Text, clash.Text, clash.Time),
			model.SeverityWarning,
		)
	}

	s.schedule = append(s.schedule, t)
	sortSchedule(s.schedule)
	return t, clash
}

// conflictLocked returns a copy of the first scheduled task closer than the
// conflict window to instant.
func (s *Store) conflictLocked(instant *time.Time) *model.Task {
	if instant == nil {
		return nil
	}
	for i := range s.schedule {
		other := s.schedule[i].Instant
		if other == nil {
			continue
		}
		d := instant.Sub(*other)
		if d < 0 {
			d = -d
		}
		if d < s.window {
			c := s.schedule[i].Clone()
			return &c
		}
	}
	return nil
}

// RemoveTask deletes a task by id. Absent ids are logged and ignored.
func (s *Store) RemoveTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := id
	if i := indexOf(s.schedule, id); i >= 0 {
		name = s.schedule[i].Text
		s.removeLocked(i)
	}
	s.logLocked(fmt.Sprintf("Task deleted: %s", name), model.SeverityInfo)
	s.commitLocked()
}

// RemoveLatest deletes the most recently created task.
func (s *Store) RemoveLatest() (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := -1
	for i := range s.schedule {
		if latest < 0 || newer(s.schedule[i], s.schedule[latest]) {
			latest = i
		}
	}
	if latest < 0 {
		return model.Task{}, false
	}

	t := s.schedule[latest]
	s.removeLocked(latest)
	s.logLocked(fmt.Sprintf("Task deleted: %s", t.Text), model.SeverityInfo)
	s.commitLocked()
	return t.Clone(), true
}

// newer orders by creation time; v7 ids break ties.
func newer(a, b model.Task) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// removeLocked drops the task at i and ends a focus session bound to it.
func (s *Store) removeLocked(i int) {
	id := s.schedule[i].ID
	s.schedule = append(s.schedule[:i], s.schedule[i+1:]...)

	if s.focus.Active && s.focus.TaskID == id {
		s.logLocked(fmt.Sprintf("Focus session ended: %s left the schedule", s.focus.TaskText), model.SeverityWarning)
		s.stopFocusLocked()
	}
}

// CompleteTask archives a task and awards XP. Absent ids are a no-op.
func (s *Store) CompleteTask(id string) (model.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.completeLocked(id)
	if !ok {
		return model.HistoryEntry{}, false
	}
	s.commitLocked()
	return entry, true
}

// XPFor returns the experience awarded for completing t.
func XPFor(t model.Task) int {
	xp := 10
	if t.IsUrgent {
		xp += 5
	}
	if t.IsImportant {
		xp += 10
	}
	return xp
}

func (s *Store) completeLocked(id string) (model.HistoryEntry, bool) {
	i := indexOf(s.schedule, id)
	if i < 0 {
		return model.HistoryEntry{}, false
	}

	t := s.schedule[i]
	entry := model.HistoryEntry{
		Task:        t.Clone(),
		CompletedAt: s.now(),
		XPEarned:    XPFor(t),
	}

	s.history = append([]model.HistoryEntry{entry}, s.history...)
	if len(s.history) > s.histCap {
		s.history = s.history[:s.histCap]
	}
	s.removeLocked(i)
	s.logLocked(fmt.Sprintf("Task archived: %s", t.Text), model.SeveritySuccess)
	s.addXPLocked(entry.XPEarned)
	return entry, true
}

// MarkAsNotified flags a task as announced. Absent ids are a no-op.
func (s *Store) MarkAsNotified(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.schedule, id)
	if i < 0 || s.schedule[i].Notified {
		return
	}
	s.schedule[i].Notified = true
	s.commitLocked()
}

// ClaimDue marks and returns every unannounced task whose wall-clock hour
// and minute equal those of now, in now's zone. The date is not compared.
// Claiming is atomic so a task is announced at most once.
func (s *Store) ClaimDue(now time.Time) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []model.Task
	for i := range s.schedule {
		t := &s.schedule[i]
		if t.Instant == nil || t.Notified {
			continue
		}
		local := t.Instant.In(now.Location())
		if local.Hour() != now.Hour() || local.Minute() != now.Minute() {
			continue
		}
		t.Notified = true
		due = append(due, t.Clone())
	}

	if len(due) > 0 {
		s.commitLocked()
	}
	return due
}
