// Package router decides what a typed or dictated command means and
// applies it to the schedule.
package router

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nhle/jarvis/internal/ai"
	"github.com/nhle/jarvis/internal/capability"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/nlp"
)

const defaultTimeout = 20 * time.Second

// Schedule is the slice of the state store the router mutates.
type Schedule interface {
	AddTask(raw string) (model.Task, error)
	AddDraft(d model.Draft) (model.Task, error)
	RemoveLatest() (model.Task, bool)
	SetStatus(st model.Status)
	Personality() model.Personality
}

// Outcome describes what a command did.
type Outcome struct {
	Intent   ai.Intent
	Task     *model.Task
	Response string
	// Fallback is set when the local parser handled the command.
	Fallback bool
	Err      error
}

// Config wires a Router.
type Config struct {
	Store       Schedule
	Interpreter ai.Interpreter
	Speaker     capability.Speaker
	Now         func() time.Time
	Timeout     time.Duration
}

// Router routes commands to the interpretation service, falling back to
// the local parser on any failure.
type Router struct {
	store   Schedule
	speaker capability.Speaker
	now     func() time.Time

	mu      sync.RWMutex
	interp  ai.Interpreter
	timeout time.Duration

	group singleflight.Group

	busyMu sync.Mutex
	busy   int
}

// New creates a Router. A nil Interpreter means local parsing only.
func New(cfg Config) *Router {
	r := &Router{
		store:   cfg.Store,
		speaker: cfg.Speaker,
		now:     cfg.Now,
		interp:  cfg.Interpreter,
		timeout: cfg.Timeout,
	}
	if r.speaker == nil {
		r.speaker = capability.Nop{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}
	return r
}

// SetInterpreter swaps the interpretation backend, e.g. after the API key
// changes. Nil disables it.
func (r *Router) SetInterpreter(i ai.Interpreter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interp = i
}

// SetTimeout changes the interpretation deadline.
func (r *Router) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeout = d
}

// HasInterpreter reports whether a hosted model is configured.
func (r *Router) HasInterpreter() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.interp != nil
}

// Handle interprets text and applies it. Identical commands arriving while
// one is in flight share its outcome instead of running twice.
func (r *Router) Handle(ctx context.Context, text string) Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}
	}

	v, _, _ := r.group.Do(text, func() (any, error) {
		return r.handle(ctx, text), nil
	})
	return v.(Outcome)
}

func (r *Router) handle(ctx context.Context, text string) Outcome {
	r.mu.RLock()
	interp, timeout := r.interp, r.timeout
	r.mu.RUnlock()

	if interp != nil {
		in, err := r.interpret(ctx, interp, timeout, text)
		if err == nil {
			return r.dispatch(in)
		}
		slog.Warn("interpretation failed, using local parser", "error", err)
	}
	return r.fallback(text)
}

func (r *Router) interpret(
	ctx context.Context,
	interp ai.Interpreter,
	timeout time.Duration,
	text string,
) (ai.Interpretation, error) {
	r.begin()
	defer r.end()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return interp.Interpret(ctx, ai.NewRequest(text, r.now()), r.store.Personality())
}

// begin and end count outstanding calls; the status returns to idle only
// when the last one finishes.
func (r *Router) begin() {
	r.busyMu.Lock()
	defer r.busyMu.Unlock()
	r.busy++
	r.store.SetStatus(model.StatusProcessing)
}

func (r *Router) end() {
	r.busyMu.Lock()
	defer r.busyMu.Unlock()
	r.busy--
	if r.busy == 0 {
		r.store.SetStatus(model.StatusIdle)
	}
}

func (r *Router) dispatch(in ai.Interpretation) Outcome {
	out := Outcome{Intent: in.Intent, Response: in.Response}

	switch in.Intent {
	case ai.IntentTask:
		t, err := r.store.AddDraft(in.Draft())
		if err != nil {
			out.Err = err
		} else {
			out.Task = &t
		}
	case ai.IntentDelete:
		if t, ok := r.store.RemoveLatest(); ok {
			out.Task = &t
		}
	}

	if out.Response != "" {
		r.speaker.Speak(out.Response, r.store.Personality().SpeechRate())
	}
	return out
}

// fallback applies the keyword rules of the local parser.
func (r *Router) fallback(text string) Outcome {
	out := Outcome{Fallback: true}

	if nlp.IsDeleteCommand(text) {
		out.Intent = ai.IntentDelete
		if t, ok := r.store.RemoveLatest(); ok {
			out.Task = &t
		}
		return out
	}

	out.Intent = ai.IntentTask
	t, err := r.store.AddTask(text)
	if err != nil {
		out.Err = err
		return out
	}
	out.Task = &t
	return out
}
