package state

import (
	"fmt"
	"strings"

	"github.com/nhle/jarvis/internal/model"
)

// AddXP awards experience and recomputes the level.
func (s *Store) AddXP(amount int) error {
	if amount < 0 {
		return ErrNegativeXP
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.addXPLocked(amount)
	s.commitLocked()
	return nil
}

// addXPLocked reports whether the award crossed a level boundary.
func (s *Store) addXPLocked(amount int) bool {
	before := s.profile.Level
	s.profile.XP += amount
	s.profile.Level = model.LevelFor(s.profile.XP)

	if s.profile.Level > before {
		s.logLocked(fmt.Sprintf("LEVEL UP: now level %d", s.profile.Level), model.SeveritySuccess)
		return true
	}
	s.logLocked(fmt.Sprintf("+%d XP (total %d)", amount, s.profile.XP), model.SeverityInfo)
	return false
}

// UpdateProfile edits preferences. Blank or non-positive values keep the
// current setting. XP and level are never touched.
func (s *Store) UpdateProfile(name string, sleepGoal float64, focusBlock int) model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name = strings.TrimSpace(name); name != "" {
		s.profile.Name = name
	}
	if sleepGoal > 0 {
		s.profile.SleepGoal = sleepGoal
	}
	if focusBlock > 0 {
		s.profile.FocusBlock = focusBlock
	}

	s.logLocked("Identity profile updated", model.SeverityInfo)
	s.commitLocked()
	return s.profile
}
