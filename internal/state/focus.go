package state

import (
	"fmt"
	"time"

	"github.com/nhle/jarvis/internal/model"
)

// EnterFocus starts a focus session on a scheduled task.
func (s *Store) EnterFocus(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.focus.Active {
		return ErrFocusActive
	}
	i := indexOf(s.schedule, taskID)
	if i < 0 {
		return ErrTaskNotFound
	}

	start := s.now()
	s.focus = model.FocusSession{
		Active:    true,
		TaskID:    taskID,
		TaskText:  s.schedule[i].Text,
		StartedAt: start,
	}
	s.startTickerLocked(start)
	s.logLocked(fmt.Sprintf("Focus session engaged: %s", s.focus.TaskText), model.SeverityInfo)
	s.commitLocked()
	return nil
}

// ExitFocus ends the active session. A completed session archives the
// task and credits the focus stats; an aborted one changes nothing else.
func (s *Store) ExitFocus(completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.focus.Active {
		return ErrFocusInactive
	}
	sess := s.focus
	s.stopFocusLocked()

	if completed {
		s.completeLocked(sess.TaskID)
		s.focusStats.TotalMinutes += s.credit
		s.focusStats.Sessions++
		s.logLocked(fmt.Sprintf("Focus session complete: %s (+%d min)", sess.TaskText, s.credit), model.SeveritySuccess)
	} else {
		s.logLocked(fmt.Sprintf("Focus session aborted: %s", sess.TaskText), model.SeverityWarning)
	}
	s.commitLocked()
	return nil
}

// Focus returns the current session.
func (s *Store) Focus() model.FocusSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// FocusTicks streams the elapsed time of the active session. Ticks are
// dropped when the reader falls behind. The channel is closed when the
// session ends; without an active session it is already closed.
func (s *Store) FocusTicks() <-chan time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticks == nil {
		closed := make(chan time.Duration)
		close(closed)
		return closed
	}
	return s.ticks
}

func (s *Store) startTickerLocked(start time.Time) {
	s.stopTickerLocked()

	stop := make(chan struct{})
	ticks := make(chan time.Duration, 1)
	s.focusStop, s.ticks = stop, ticks
	now, rate := s.now, s.tickRate

	go func() {
		defer close(ticks)
		t := time.NewTicker(rate)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				select {
				case ticks <- now().Sub(start).Truncate(time.Second):
				default:
				}
			}
		}
	}()
}

func (s *Store) stopTickerLocked() {
	if s.focusStop == nil {
		return
	}
	close(s.focusStop)
	s.focusStop, s.ticks = nil, nil
}

func (s *Store) stopFocusLocked() {
	s.stopTickerLocked()
	s.focus = model.FocusSession{}
}

// focusRunning reports whether the ticker goroutine is live.
func (s *Store) focusRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusStop != nil
}
