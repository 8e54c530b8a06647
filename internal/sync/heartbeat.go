// Package sync runs the background heartbeat: due-task announcements and
// periodic suggestion evaluation.
package sync

import (
	"context"
	"log/slog"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/jarvis/internal/capability"
	"github.com/nhle/jarvis/internal/model"
)

const (
	defaultHeartbeat  = 30 * time.Second
	defaultSuggestion = 10 * time.Minute

	notifyTitle = "JARVIS.OS PROTOCOL"
)

// DueMsg is a tea.Msg sent after tasks were announced.
type DueMsg struct {
	Tasks []model.Task
}

// SuggestionsMsg is a tea.Msg sent when new suggestions appeared.
type SuggestionsMsg struct {
	Tasks []model.Task
}

// Scheduler is the part of the state store the heartbeat drives.
type Scheduler interface {
	ClaimDue(now time.Time) []model.Task
	EvaluateSuggestions(now time.Time) []model.Task
	Personality() model.Personality
}

// Config wires a Heartbeat. Zero intervals use the defaults.
type Config struct {
	Scheduler          Scheduler
	Notifier           capability.Notifier
	Speaker            capability.Speaker
	Now                func() time.Time
	HeartbeatInterval  time.Duration
	SuggestionInterval time.Duration
}

// Heartbeat orchestrates the periodic scans.
type Heartbeat struct {
	sched     Scheduler
	notifier  capability.Notifier
	speaker   capability.Speaker
	now       func() time.Time
	beat      time.Duration
	suggest   time.Duration
	permOnce  gosync.Once
	permitted bool
	resultCh  chan tea.Msg

	mu      gosync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a Heartbeat.
func New(cfg Config) *Heartbeat {
	h := &Heartbeat{
		sched:    cfg.Scheduler,
		notifier: cfg.Notifier,
		speaker:  cfg.Speaker,
		now:      cfg.Now,
		beat:     cfg.HeartbeatInterval,
		suggest:  cfg.SuggestionInterval,
		resultCh: make(chan tea.Msg, 16),
	}
	if h.notifier == nil {
		h.notifier = capability.Nop{}
	}
	if h.speaker == nil {
		h.speaker = capability.Nop{}
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.beat <= 0 {
		h.beat = defaultHeartbeat
	}
	if h.suggest <= 0 {
		h.suggest = defaultSuggestion
	}
	return h
}

// requestPermission asks for notification permission on first use only.
func (h *Heartbeat) requestPermission() bool {
	h.permOnce.Do(func() {
		h.permitted = h.notifier.RequestPermission()
		if !h.permitted {
			slog.Info("desktop notifications disabled, announcements are spoken only")
		}
	})
	return h.permitted
}

// CheckDue announces every task due at the minute of now and marks it
// notified.
func (h *Heartbeat) CheckDue(now time.Time) []model.Task {
	permitted := h.requestPermission()

	due := h.sched.ClaimDue(now)
	if len(due) == 0 {
		return nil
	}

	rate := h.sched.Personality().SpeechRate()
	for _, t := range due {
		slog.Info("task due", "id", t.ID, "text", t.Text)
		if permitted {
			h.notifier.Notify(notifyTitle, "EXECUTING: "+t.Text)
		}
		h.speaker.Speak("Sir, it is time for: "+t.Text, rate)
	}

	h.sendResult(DueMsg{Tasks: due})
	return due
}

// Suggest evaluates the suggestion rules at now.
func (h *Heartbeat) Suggest(now time.Time) []model.Task {
	created := h.sched.EvaluateSuggestions(now)
	if len(created) > 0 {
		h.sendResult(SuggestionsMsg{Tasks: created})
	}
	return created
}

// Run drives both loops until ctx is cancelled. Suggestions are evaluated
// once immediately.
func (h *Heartbeat) Run(ctx context.Context) error {
	h.requestPermission()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return h.loop(ctx, h.beat, false, h.CheckDue)
	})
	g.Go(func() error {
		return h.loop(ctx, h.suggest, true, h.Suggest)
	})
	return g.Wait()
}

func (h *Heartbeat) loop(
	ctx context.Context,
	interval time.Duration,
	immediate bool,
	fn func(time.Time) []model.Task,
) error {
	if immediate {
		fn(h.now())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn(h.now())
		}
	}
}

// Start launches the loops in the background and returns a tea.Cmd that
// waits for the first event.
func (h *Heartbeat) Start() tea.Cmd {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h.running = true
	h.cancel = cancel
	h.mu.Unlock()

	go func() {
		if err := h.Run(ctx); err != nil {
			slog.Error("heartbeat stopped", "error", err)
		}
	}()

	return h.waitForEvent()
}

// Stop halts the background loops.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return
	}
	h.cancel()
	h.running = false
}

// sendResult publishes an event without blocking the heartbeat.
func (h *Heartbeat) sendResult(msg tea.Msg) {
	select {
	case h.resultCh <- msg:
	default:
		// Drop if the UI is not keeping up.
	}
}

func (h *Heartbeat) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-h.resultCh
	}
}

// WaitForNextEvent returns a tea.Cmd that waits for the next heartbeat
// event. Call it after handling each DueMsg or SuggestionsMsg.
func (h *Heartbeat) WaitForNextEvent() tea.Cmd {
	return h.waitForEvent()
}
