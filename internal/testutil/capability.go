package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/nhle/jarvis/internal/capability"
)

// Spoken is one recorded Speak call.
type Spoken struct {
	Text string
	Rate float64
}

// Notification is one recorded Notify call.
type Notification struct {
	Title string
	Body  string
}

// Recorder is a capability fake that records every call.
type Recorder struct {
	Permit bool

	mu            sync.Mutex
	permissionAsk int
	spoken        []Spoken
	notifications []Notification
	tones         []capability.Tone
}

func (r *Recorder) RequestPermission() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permissionAsk++
	return r.Permit
}

func (r *Recorder) Notify(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Title: title, Body: body})
}

func (r *Recorder) Speak(text string, rate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, Spoken{Text: text, Rate: rate})
}

func (r *Recorder) Play(t capability.Tone) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tones = append(r.tones, t)
}

func (r *Recorder) Spoken() []Spoken {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Spoken(nil), r.spoken...)
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

func (r *Recorder) Tones() []capability.Tone {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]capability.Tone(nil), r.tones...)
}

func (r *Recorder) PermissionRequests() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.permissionAsk
}

// ScriptedListener returns canned transcripts in order.
type ScriptedListener struct {
	mu      sync.Mutex
	Replies []string
	Err     error
}

func (l *ScriptedListener) Listen(context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return "", l.Err
	}
	if len(l.Replies) == 0 {
		return "", capability.ErrUnsupported
	}
	next := l.Replies[0]
	l.Replies = l.Replies[1:]
	return next, nil
}

func (l *ScriptedListener) Stop() {}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock fixed at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current fixed time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
