package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/store"
)

// Snapshot is the persisted and exported form of the whole state.
type Snapshot struct {
	User         *model.Profile       `json:"user" validate:"required"`
	Schedule     []model.Task         `json:"schedule" validate:"required,dive"`
	Suggestions  []model.Task         `json:"suggestions" validate:"dive"`
	History      []model.HistoryEntry `json:"history" validate:"dive"`
	Logs         []model.LogEntry     `json:"logs"`
	FocusStats   model.FocusStats     `json:"focusStats"`
	Personality  model.Personality    `json:"personality,omitempty"`
	DailyAnswers []model.DailyAnswer  `json:"dailyAnswers"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func encodeSnapshot(snap Snapshot, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(snap, "", "  ")
	}
	return json.Marshal(snap)
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := validate.Struct(snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return snap, nil
}

func (s *Store) snapshotLocked() Snapshot {
	p := s.profile
	hist := make([]model.HistoryEntry, len(s.history))
	copy(hist, s.history)
	answers := make([]model.DailyAnswer, len(s.answers))
	copy(answers, s.answers)

	return Snapshot{
		User:         &p,
		Schedule:     cloneTasks(s.schedule),
		Suggestions:  cloneTasks(s.suggestions),
		History:      hist,
		Logs:         s.logs.Entries(),
		FocusStats:   s.focusStats,
		Personality:  s.personality,
		DailyAnswers: answers,
	}
}

// applyLocked replaces the state wholesale with a validated snapshot.
func (s *Store) applyLocked(snap Snapshot) {
	s.stopFocusLocked()

	s.profile = *snap.User
	s.profile.Level = model.LevelFor(s.profile.XP)

	s.schedule = normalizeTasks(snap.Schedule, model.TypeTask)
	sortSchedule(s.schedule)
	s.suggestions = normalizeTasks(snap.Suggestions, model.TypeSuggestion)

	s.history = append([]model.HistoryEntry{}, snap.History...)
	if len(s.history) > s.histCap {
		s.history = s.history[:s.histCap]
	}

	s.logs.Restore(snap.Logs)
	s.focusStats = snap.FocusStats

	switch snap.Personality {
	case model.PersonalityBrief, model.PersonalityDeep:
		s.personality = snap.Personality
	default:
		s.personality = model.PersonalityStandard
	}

	s.answers = append([]model.DailyAnswer{}, snap.DailyAnswers...)
}

// normalizeTasks fills the fields older backups may omit.
func normalizeTasks(in []model.Task, typ model.TaskType) []model.Task {
	out := cloneTasks(in)
	for i := range out {
		if out[i].Type == "" {
			out[i].Type = typ
		}
		if out[i].Time == "" {
			out[i].Time = model.TimeTBD
			if out[i].Instant != nil {
				out[i].Time = out[i].Instant.Format(model.TimeLayout)
			}
		}
	}
	return out
}

// BackupFileName is the default export file name for a day.
func BackupFileName(day time.Time) string {
	return "JARVIS_BACKUP_" + day.Format("2006-01-02") + ".json"
}

// Export returns the full state as indented JSON.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeSnapshot(s.snapshotLocked(), true)
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

// Import replaces the state with a backup. Invalid backups are rejected
// with ErrInvalidImport and leave the state unchanged apart from a log
// entry recording the failure.
func (s *Store) Import(data []byte) error {
	snap, err := decodeSnapshot(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logLocked("System restore failed: backup rejected", model.SeverityError)
		s.commitLocked()
		return err
	}

	s.applyLocked(snap)
	s.logLocked("System restore complete", model.SeveritySuccess)
	s.commitLocked()
	return nil
}

// Reset deletes the persisted snapshot and returns to the default state.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	if s.blob == nil {
		return nil
	}
	if err := s.blob.Delete(ctx, store.SnapshotKey); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}
