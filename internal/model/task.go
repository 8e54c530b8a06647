package model

import "time"

// TaskType classifies a schedule item.
type TaskType string

const (
	TypeTask       TaskType = "task"
	TypeSystem     TaskType = "system"
	TypeConflict   TaskType = "conflict"
	TypeSuggestion TaskType = "suggestion"
)

// TimeTBD is the display label of a task without a resolved instant.
const TimeTBD = "TBD"

// TimeLayout is the short clock label attached to scheduled tasks.
const TimeLayout = "03:04 PM"

// Task is a single schedule item. Suggestions share the same shape with
// Type set to TypeSuggestion.
type Task struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id" validate:"required"`

	// Text is the human-readable description.
	Text string `json:"text" validate:"required"`

	// Type is the nominal kind, overridden by TypeConflict when the task
	// collided with another one at insertion time.
	Type TaskType `json:"type" validate:"omitempty,oneof=task system conflict suggestion"`

	// Time is the display label, TimeTBD when Instant is nil.
	Time string `json:"time"`

	// Instant is the resolved point in time. Nil means unscheduled.
	Instant *time.Time `json:"instant,omitempty"`

	// Notified is set once the heartbeat has announced this task.
	Notified bool `json:"notified"`

	// IsUrgent and IsImportant place the task in the priority matrix.
	// They are decided at creation and never recomputed.
	IsUrgent    bool `json:"isUrgent"`
	IsImportant bool `json:"isImportant"`

	CreatedAt time.Time `json:"createdAt"`
}

// Scheduled reports whether the task has a resolved instant.
func (t Task) Scheduled() bool {
	return t.Instant != nil
}

// Clone returns a deep copy so callers never share the Instant pointer
// with the store.
func (t Task) Clone() Task {
	if t.Instant != nil {
		in := *t.Instant
		t.Instant = &in
	}
	return t
}

// DraftKind tells whether the parser found a date in the input.
type DraftKind string

const (
	KindNote DraftKind = "note"
	KindTask DraftKind = "task"
)

// Draft is a structured, not yet inserted schedule item produced by the
// command parser or the interpretation service.
type Draft struct {
	Text        string
	Time        string
	Instant     *time.Time
	Kind        DraftKind
	IsUrgent    bool
	IsImportant bool
}

// HistoryEntry is a frozen copy of a completed task.
type HistoryEntry struct {
	Task
	CompletedAt time.Time `json:"completedAt"`
	XPEarned    int       `json:"xpEarned"`
}

// Quadrant names a cell of the urgent/important priority matrix.
type Quadrant string

const (
	QuadrantDoFirst   Quadrant = "do_first"
	QuadrantSchedule  Quadrant = "schedule"
	QuadrantDelegate  Quadrant = "delegate"
	QuadrantEliminate Quadrant = "eliminate"
)

// QuadrantOf returns the matrix cell for the task's flags.
func QuadrantOf(t Task) Quadrant {
	switch {
	case t.IsUrgent && t.IsImportant:
		return QuadrantDoFirst
	case t.IsImportant:
		return QuadrantSchedule
	case t.IsUrgent:
		return QuadrantDelegate
	default:
		return QuadrantEliminate
	}
}
