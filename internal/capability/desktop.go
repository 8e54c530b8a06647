package capability

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier shows notifications through the platform notification
// service.
type DesktopNotifier struct {
	enabled bool
	notify  func(title, body string) error

	once    sync.Once
	granted atomic.Bool
}

// NewNotifier returns a desktop notifier. A disabled notifier never grants
// permission.
func NewNotifier(enabled bool) *DesktopNotifier {
	beeep.AppName = "JARVIS.OS"
	return &DesktopNotifier{
		enabled: enabled,
		notify: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
}

// RequestPermission grants notifications once when they are enabled.
func (n *DesktopNotifier) RequestPermission() bool {
	n.once.Do(func() {
		n.granted.Store(n.enabled)
	})
	return n.granted.Load()
}

// Notify shows a notification in the background when permitted. A failed
// delivery revokes the permission so a headless session stops retrying.
func (n *DesktopNotifier) Notify(title, body string) {
	if !n.granted.Load() {
		return
	}
	go func() {
		if err := n.notify(title, body); err != nil {
			slog.Warn("notification failed, disabling notifications", "error", err)
			n.granted.Store(false)
		}
	}()
}

// tone is one beep: frequency in hertz and duration in milliseconds.
type tone struct {
	freq float64
	ms   int
}

// toneTable maps feedback tones to beeps. Hover has no sound in a terminal.
var toneTable = map[Tone]tone{
	ToneClick:   {freq: 1200, ms: 25},
	ToneSuccess: {freq: 880, ms: 120},
	ToneError:   {freq: 220, ms: 250},
}

// BeepTones plays feedback tones on the system speaker.
type BeepTones struct {
	beep func(freq float64, ms int) error
}

// NewBeepTones returns tones backed by the system beeper.
func NewBeepTones() BeepTones {
	return BeepTones{beep: func(freq float64, ms int) error {
		return beeep.Beep(freq, ms)
	}}
}

// Play starts the tone and returns immediately.
func (b BeepTones) Play(t Tone) {
	tn, ok := toneTable[t]
	if !ok || b.beep == nil {
		return
	}
	go func() {
		if err := b.beep(tn.freq, tn.ms); err != nil {
			slog.Debug("tone failed", "tone", t, "error", err)
		}
	}()
}
