package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/jarvis/internal/ai"
	"github.com/nhle/jarvis/internal/capability"
	"github.com/nhle/jarvis/internal/credential"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/router"
	"github.com/nhle/jarvis/internal/state"
	"github.com/nhle/jarvis/internal/ui/profile"
)

// resetTimeout bounds the blob deletion of a hard reset.
const resetTimeout = 5 * time.Second

// outcomeMsg carries the result of a routed command.
type outcomeMsg struct {
	out router.Outcome
}

// transcriptMsg carries one dictated utterance.
type transcriptMsg struct {
	text string
	err  error
}

// storeChangedMsg is sent after a schedule mutation.
type storeChangedMsg struct {
	flash string
	err   error
}

// focusStartedMsg is sent after a focus session was requested.
type focusStartedMsg struct{ err error }

// focusTickMsg carries the elapsed time of the active focus session.
type focusTickMsg time.Duration

// focusEndedMsg releases the tick reader after the session stopped.
type focusEndedMsg struct{}

// settingsResultMsg is sent after a settings action finished.
type settingsResultMsg struct {
	status string
	err    error
}

// keyLinkedMsg is sent after the API key was stored or removed.
type keyLinkedMsg struct {
	source string
	err    error
}

// submit routes a typed or dictated command.
func (m *Model) submit(text string) tea.Cmd {
	r := m.router
	return func() tea.Msg {
		return outcomeMsg{out: r.Handle(context.Background(), text)}
	}
}

// listen captures one utterance.
func (m *Model) listen() tea.Cmd {
	l := m.listener
	return func() tea.Msg {
		text, err := l.Listen(context.Background())
		switch {
		case errors.Is(err, capability.ErrUnsupported):
			err = errors.New("voice input is not available here")
		case errors.Is(err, context.Canceled):
			return transcriptMsg{}
		}
		return transcriptMsg{text: text, err: err}
	}
}

func (m *Model) completeTask(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		h, ok := s.CompleteTask(id)
		if !ok {
			return storeChangedMsg{err: state.ErrTaskNotFound}
		}
		return storeChangedMsg{flash: fmt.Sprintf("Completed: %s (+%d XP)", h.Text, h.XPEarned)}
	}
}

func (m *Model) removeTask(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		s.RemoveTask(id)
		return storeChangedMsg{flash: "Task removed"}
	}
}

func (m *Model) acceptSuggestion(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		t, ok := s.AcceptSuggestion(id)
		if !ok {
			return storeChangedMsg{err: state.ErrTaskNotFound}
		}
		return storeChangedMsg{flash: "Accepted: " + t.Text}
	}
}

func (m *Model) rejectSuggestion(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if !s.RejectSuggestion(id) {
			return storeChangedMsg{err: state.ErrTaskNotFound}
		}
		return storeChangedMsg{flash: "Suggestion dismissed"}
	}
}

func (m *Model) enterFocus(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return focusStartedMsg{err: s.EnterFocus(id)}
	}
}

func (m *Model) exitFocus(completed bool) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if err := s.ExitFocus(completed); err != nil {
			return storeChangedMsg{err: err}
		}
		if completed {
			return storeChangedMsg{flash: "Focus session complete"}
		}
		return storeChangedMsg{flash: "Focus session aborted"}
	}
}

// waitForTick returns a command reading the next focus tick. Only one
// reader is outstanding at a time, and it returns once the session ends.
func (m *Model) waitForTick() tea.Cmd {
	if m.tickWaiting {
		return nil
	}
	m.tickWaiting = true
	ticks := m.store.FocusTicks()
	return func() tea.Msg {
		d, ok := <-ticks
		if !ok {
			return focusEndedMsg{}
		}
		return focusTickMsg(d)
	}
}

func (m *Model) saveProfile(msg profile.SavedMsg) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		p := s.UpdateProfile(msg.Name, msg.SleepGoal, msg.FocusBlock)
		return storeChangedMsg{flash: "Profile updated for " + p.Name}
	}
}

func (m *Model) submitAnswer(text string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		done, err := s.SubmitAnswer(text)
		if err != nil {
			return storeChangedMsg{err: err}
		}
		if done {
			return storeChangedMsg{flash: "Daily briefing complete"}
		}
		return storeChangedMsg{}
	}
}

// setPersonality applies the mode and writes it back to the config file.
func (m *Model) setPersonality(p model.Personality) tea.Cmd {
	s, cfg, path := m.store, *m.cfg, m.configPath
	return func() tea.Msg {
		s.SetPersonality(p)
		if path == "" {
			return settingsResultMsg{status: "Personality set to " + string(p)}
		}
		cfg.Display.Personality = string(p)
		if err := model.SaveConfig(path, &cfg); err != nil {
			return settingsResultMsg{err: err}
		}
		return settingsResultMsg{status: "Personality set to " + string(p)}
	}
}

// linkAPIKey stores key in the keyring, or removes it when key is empty,
// then rebuilds the interpreter from whatever key is still resolvable.
func (m *Model) linkAPIKey(key string) tea.Cmd {
	r, aiCfg := m.router, m.cfg.AI
	return func() tea.Msg {
		var err error
		if key == "" {
			err = credential.Delete(credential.APIKeyName)
		} else {
			err = credential.Set(credential.APIKeyName, key)
		}
		if err != nil {
			return keyLinkedMsg{err: fmt.Errorf("updating keyring: %w", err)}
		}

		resolved, source := credential.ResolveAPIKey(aiCfg.Provider)
		if resolved == "" {
			r.SetInterpreter(nil)
			return keyLinkedMsg{}
		}
		interp, err := ai.New(aiCfg, resolved)
		if err != nil {
			r.SetInterpreter(nil)
			return keyLinkedMsg{err: err}
		}
		r.SetInterpreter(interp)
		return keyLinkedMsg{source: source}
	}
}

func (m *Model) exportBackup(path string) tea.Cmd {
	s := m.store
	if path == "" {
		path = state.BackupFileName(m.now())
	}
	return func() tea.Msg {
		data, err := s.Export()
		if err != nil {
			return settingsResultMsg{err: err}
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return settingsResultMsg{err: fmt.Errorf("writing backup %s: %w", path, err)}
		}
		slog.Info("backup exported", "path", path)
		return settingsResultMsg{status: "Backup written to " + path}
	}
}

func (m *Model) importBackup(path string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return settingsResultMsg{err: fmt.Errorf("reading backup %s: %w", path, err)}
		}
		if err := s.Import(data); err != nil {
			return settingsResultMsg{err: err}
		}
		return settingsResultMsg{status: "Backup restored from " + path}
	}
}

func (m *Model) hardReset() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
		defer cancel()
		if err := s.Reset(ctx); err != nil {
			return settingsResultMsg{err: err}
		}
		return settingsResultMsg{status: "System reset complete"}
	}
}
