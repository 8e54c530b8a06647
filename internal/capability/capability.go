// Package capability holds the host-facing boundaries of the assistant:
// desktop notifications, speech in and out, and audio feedback tones.
package capability

import (
	"context"
	"errors"
)

var (
	// ErrUnsupported means the environment lacks the capability.
	ErrUnsupported = errors.New("capability not supported in this environment")
	// ErrListening means a listening session is already running.
	ErrListening = errors.New("listening session already active")
)

// Notifier shows desktop notifications. Notify is fire-and-forget and does
// nothing until RequestPermission has returned true.
type Notifier interface {
	RequestPermission() bool
	Notify(title, body string)
}

// Speaker reads text aloud at a relative rate where 1.0 is normal speed.
type Speaker interface {
	Speak(text string, rate float64)
}

// Listener captures one spoken utterance as text.
type Listener interface {
	Listen(ctx context.Context) (string, error)
	Stop()
}

// Tone identifies a short feedback sound.
type Tone string

const (
	ToneHover   Tone = "hover"
	ToneClick   Tone = "click"
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// Tones plays feedback sounds. Failures are swallowed.
type Tones interface {
	Play(t Tone)
}

// Nop satisfies every capability and does nothing.
type Nop struct{}

func (Nop) RequestPermission() bool { return false }
func (Nop) Notify(string, string)   {}
func (Nop) Speak(string, float64)   {}
func (Nop) Play(Tone)               {}
func (Nop) Stop()                   {}

func (Nop) Listen(context.Context) (string, error) { return "", ErrUnsupported }
