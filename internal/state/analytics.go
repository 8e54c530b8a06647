package state

import (
	"time"

	"github.com/nhle/jarvis/internal/model"
)

// Quadrants buckets the schedule into the urgent/important matrix.
func (s *Store) Quadrants() map[model.Quadrant][]model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[model.Quadrant][]model.Task{
		model.QuadrantDoFirst:   {},
		model.QuadrantSchedule:  {},
		model.QuadrantDelegate:  {},
		model.QuadrantEliminate: {},
	}
	for _, t := range s.schedule {
		q := model.QuadrantOf(t)
		out[q] = append(out[q], t.Clone())
	}
	return out
}

// DayCount is the number of completions on one calendar day.
type DayCount struct {
	Date  time.Time
	Label string
	Count int
}

// Velocity counts completions for each of the last days calendar days,
// oldest first and ending with the day of now.
func (s *Store) Velocity(now time.Time, days int) []DayCount {
	if days <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	out := make([]DayCount, days)
	for i := range out {
		d := today.AddDate(0, 0, i-(days-1))
		out[i] = DayCount{Date: d, Label: d.Format("Mon")}
	}

	for _, h := range s.history {
		c := h.CompletedAt.In(loc)
		day := time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, loc)
		offset := int(today.Sub(day).Hours()/24 + 0.5)
		if offset < 0 || offset >= days {
			continue
		}
		out[days-1-offset].Count++
	}
	return out
}
