package state

import (
	"fmt"
	"time"

	"github.com/nhle/jarvis/internal/model"
)

// suggestionRule proposes Text while the clock hour is in [from, to).
type suggestionRule struct {
	from, to int
	text     string
	label    string
	// at returns the instant the suggestion is proposed for.
	at func(now time.Time) time.Time
	// skip vetoes the rule against the current schedule.
	skip func(s *Store, now time.Time) bool
}

func todayAt(hour int) func(time.Time) time.Time {
	return func(now time.Time) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	}
}

var suggestionRules = []suggestionRule{
	{
		from: 6, to: 9,
		text:  "Execute Morning Protocol",
		label: "NOW",
		at:    func(now time.Time) time.Time { return now.Truncate(time.Minute) },
		skip:  (*Store).busyThisHourLocked,
	},
	{
		from: 10, to: 11,
		text:  "Initiate Deep Work Session",
		label: "10:00 AM",
		at:    todayAt(10),
	},
	{
		from: 20, to: 22,
		text:  "Perform Daily System Review",
		label: "8:00 PM",
		at:    todayAt(20),
	},
}

// busyThisHourLocked reports whether a scheduled task falls in the current
// clock hour of the current day.
func (s *Store) busyThisHourLocked(now time.Time) bool {
	y, m, d := now.Date()
	for _, t := range s.schedule {
		if t.Instant == nil {
			continue
		}
		in := t.Instant.In(now.Location())
		ty, tm, td := in.Date()
		if ty == y && tm == m && td == d && in.Hour() == now.Hour() {
			return true
		}
	}
	return false
}

// EvaluateSuggestions runs the time-of-day rules and returns the
// suggestions created by this run. Texts already present in the schedule
// or the suggestion list are skipped.
func (s *Store) EvaluateSuggestions(now time.Time) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created []model.Task
	hour := now.Hour()
	for _, r := range suggestionRules {
		if hour < r.from || hour >= r.to {
			continue
		}
		if r.skip != nil && r.skip(s, now) {
			continue
		}
		if containsText(s.schedule, r.text) || containsText(s.suggestions, r.text) {
			continue
		}

		at := r.at(now)
		sug := model.Task{
			ID:        newID(),
			Text:      r.text,
			Type:      model.TypeSuggestion,
			Time:      r.label,
			Instant:   &at,
			CreatedAt: s.now(),
		}
		s.suggestions = append(s.suggestions, sug)
		s.logLocked(fmt.Sprintf("Suggestion: %s [%s]", sug.Text, sug.Time), model.SeverityInfo)
		created = append(created, sug.Clone())
	}

	if len(created) > 0 {
		s.commitLocked()
	}
	return created
}

// AcceptSuggestion promotes a suggestion to a task with a fresh id.
func (s *Store) AcceptSuggestion(id string) (model.Task, bool) {
	s.mu.Lock()

	i := indexOf(s.suggestions, id)
	if i < 0 {
		s.mu.Unlock()
		return model.Task{}, false
	}
	sug := s.suggestions[i]
	s.suggestions = append(s.suggestions[:i], s.suggestions[i+1:]...)

	t := sug.Clone()
	t.ID = newID()
	t.Type = model.TypeTask
	t.IsUrgent = false
	t.IsImportant = false
	t.Notified = false
	t.CreatedAt = s.now()

	t, clash := s.insertLocked(t)
	s.logLocked(fmt.Sprintf("Suggestion accepted: %s", t.Text), model.SeveritySuccess)
	s.commitLocked()
	s.mu.Unlock()

	if clash != nil {
		s.speak(conflictWarning(t, *clash))
	}
	return t.Clone(), true
}

// RejectSuggestion discards a suggestion.
func (s *Store) RejectSuggestion(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.suggestions, id)
	if i < 0 {
		return false
	}
	s.suggestions = append(s.suggestions[:i], s.suggestions[i+1:]...)
	s.commitLocked()
	return true
}
