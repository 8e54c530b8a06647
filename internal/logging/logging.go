// Package logging configures the process-wide slog logger.
//
// While the terminal UI owns the screen, records go to a JSON file named
// jarvis_<date>.log under the configured directory. Headless commands log
// text to stderr instead.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const service = "jarvis"

// Config selects the level and destination of log records.
type Config struct {
	Level string
	// Dir enables file logging. Empty means stderr.
	Dir string
	// Quiet drops records entirely when no directory is set.
	Quiet bool
}

// Logger owns the handler and the optional log file.
type Logger struct {
	*slog.Logger
	file *os.File
	path string
}

// ParseLevel maps a config string to a slog level. Unknown values fall back
// to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger for cfg. A file that cannot be opened is reported as
// an error and nothing is installed.
func New(cfg Config, now time.Time) (*Logger, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if cfg.Dir == "" {
		var w io.Writer = os.Stderr
		if cfg.Quiet {
			w = io.Discard
		}
		return &Logger{Logger: slog.New(slog.NewTextHandler(w, opts))}, nil
	}

	dir := expandPath(cfg.Dir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	path := filepath.Join(dir, FileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	handler := slog.NewJSONHandler(f, opts).WithAttrs([]slog.Attr{
		slog.String("service", service),
	})
	return &Logger{Logger: slog.New(handler), file: f, path: path}, nil
}

// Install builds a logger and makes it the slog default.
func Install(cfg Config, now time.Time) (*Logger, error) {
	l, err := New(cfg, now)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l.Logger)
	return l, nil
}

// FileName is the daily log file name.
func FileName(day time.Time) string {
	return fmt.Sprintf("%s_%s.log", service, day.Format("2006-01-02"))
}

// Path returns the log file path, or "" when logging to stderr.
func (l *Logger) Path() string {
	return l.path
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
