package model

import "time"

// XPPerLevel is the amount of XP between two levels.
const XPPerLevel = 100

// Profile holds the user's preferences and progression.
type Profile struct {
	Name       string  `json:"name"`
	SleepGoal  float64 `json:"sleepGoal"`
	FocusBlock int     `json:"focusBlock"`
	XP         int     `json:"xp" validate:"gte=0"`
	Level      int     `json:"level"`
}

// LevelFor returns the level reached with the given cumulative XP.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// DefaultProfile is the profile of a fresh install.
func DefaultProfile() Profile {
	return Profile{
		Name:       "Commander",
		SleepGoal:  8,
		FocusBlock: 45,
		Level:      1,
	}
}

// FocusStats accumulates completed focus sessions.
type FocusStats struct {
	TotalMinutes int `json:"totalMinutes"`
	Sessions     int `json:"sessions"`
}

// FocusSession is a read-only view of the focus controller.
type FocusSession struct {
	Active    bool
	TaskID    string
	TaskText  string
	StartedAt time.Time
}

// Elapsed returns how long the session has been running at now.
func (f FocusSession) Elapsed(now time.Time) time.Duration {
	if !f.Active {
		return 0
	}
	return now.Sub(f.StartedAt).Truncate(time.Second)
}

// Personality controls how verbose and how fast the assistant speaks.
type Personality string

const (
	PersonalityBrief    Personality = "brief"
	PersonalityStandard Personality = "standard"
	PersonalityDeep     Personality = "deep"
)

// SpeechRate returns the speech output rate for the personality.
func (p Personality) SpeechRate() float64 {
	switch p {
	case PersonalityBrief:
		return 1.2
	case PersonalityDeep:
		return 0.85
	default:
		return 1.0
	}
}

// Status is the coarse activity indicator shown in the header.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusListening  Status = "listening"
	StatusProcessing Status = "processing"
)

// DailyAnswer is one response to a daily briefing question.
type DailyAnswer struct {
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	AnsweredAt time.Time `json:"answeredAt"`
}
