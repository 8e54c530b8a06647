package capability

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// baseWPM is the speaking rate that corresponds to rate 1.0.
const baseWPM = 175

// CommandSpeaker speaks through a text-to-speech command. The command may
// contain a {wpm} placeholder; the text is appended as the last argument.
type CommandSpeaker struct {
	args []string
}

// NewSpeaker returns a speaker for command, or the OS default (say on macOS,
// espeak elsewhere) when command is empty. It returns ErrUnsupported when the
// program is not installed.
func NewSpeaker(command string) (*CommandSpeaker, error) {
	if command == "" {
		command = "espeak -s {wpm}"
		if runtime.GOOS == "darwin" {
			command = "say -r {wpm}"
		}
	}

	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, ErrUnsupported
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, fmt.Errorf("speech command %s: %w", args[0], ErrUnsupported)
	}
	return &CommandSpeaker{args: args}, nil
}

// Speak starts speaking text and returns immediately.
func (s *CommandSpeaker) Speak(text string, rate float64) {
	if strings.TrimSpace(text) == "" {
		return
	}
	cmd := exec.Command(s.args[0], s.argv(text, rate)...)
	go func() {
		if err := cmd.Run(); err != nil {
			slog.Warn("speech failed", "error", err)
		}
	}()
}

func (s *CommandSpeaker) argv(text string, rate float64) []string {
	if rate <= 0 {
		rate = 1
	}
	wpm := strconv.Itoa(int(math.Round(baseWPM * rate)))

	out := make([]string, 0, len(s.args))
	for _, a := range s.args[1:] {
		out = append(out, strings.ReplaceAll(a, "{wpm}", wpm))
	}
	return append(out, text)
}

// CommandListener runs a speech-to-text command that prints one transcript
// to stdout and exits.
type CommandListener struct {
	args []string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewListener returns a listener for command. An empty command yields a
// listener that always reports ErrUnsupported.
func NewListener(command string) *CommandListener {
	return &CommandListener{args: strings.Fields(command)}
}

// Supported reports whether the listen command is configured and installed.
func (l *CommandListener) Supported() bool {
	if len(l.args) == 0 {
		return false
	}
	_, err := exec.LookPath(l.args[0])
	return err == nil
}

// Listen blocks until the command produces a transcript, ctx is done, or
// Stop is called. Only one session may run at a time.
func (l *CommandListener) Listen(ctx context.Context) (string, error) {
	if !l.Supported() {
		return "", ErrUnsupported
	}

	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return "", ErrListening
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.cancel = nil
		l.mu.Unlock()
		cancel()
	}()

	out, err := exec.CommandContext(ctx, l.args[0], l.args[1:]...).Output()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", fmt.Errorf("running listen command: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Stop ends the active session, if any.
func (l *CommandListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}
