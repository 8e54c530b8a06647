package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nhle/jarvis/internal/ai"
	"github.com/nhle/jarvis/internal/capability"
	"github.com/nhle/jarvis/internal/credential"
	"github.com/nhle/jarvis/internal/logging"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/router"
	"github.com/nhle/jarvis/internal/state"
	"github.com/nhle/jarvis/internal/store"
	appsync "github.com/nhle/jarvis/internal/sync"
)

// env is everything a command needs, opened once per invocation.
type env struct {
	cfg        *model.AppConfig
	configPath string
	logger     *logging.Logger
	blob       store.BlobStore
	store      *state.Store
	speaker    capability.Speaker
	notifier   capability.Notifier
}

// openEnv loads the configuration, installs the logger and opens the
// state. With logToFile the logger writes to the log directory instead of
// stderr so it does not draw over the terminal UI.
func openEnv(ctx context.Context, opts *rootOptions, logToFile bool) (*env, error) {
	cfg, err := model.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dataPath != "" {
		cfg.Storage.Path = opts.dataPath
	}

	logCfg := logging.Config{Level: cfg.Log.Level}
	if opts.verbose {
		logCfg.Level = "debug"
	}
	if logToFile {
		logCfg.Dir = cfg.Log.Dir
	}
	logger, err := logging.Install(logCfg, time.Now())
	if err != nil {
		return nil, err
	}

	blob, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}

	e := &env{
		cfg:        cfg,
		configPath: opts.configPath,
		logger:     logger,
		blob:       blob,
		speaker:    newSpeaker(cfg.Voice, opts.quiet),
		notifier:   capability.NewNotifier(cfg.Voice.Notify && !opts.quiet),
	}

	e.store, err = state.New(ctx, state.Options{
		Blob:     blob,
		Speaker:  e.speaker,
		Schedule: cfg.Schedule,
	})
	if err != nil {
		e.close()
		return nil, err
	}
	e.store.SetPersonality(model.Personality(cfg.Display.Personality))
	return e, nil
}

func newSpeaker(cfg model.VoiceConfig, quiet bool) capability.Speaker {
	if quiet {
		return capability.Nop{}
	}
	sp, err := capability.NewSpeaker(cfg.SpeakCommand)
	if err != nil {
		slog.Debug("speech output disabled", "error", err)
		return capability.Nop{}
	}
	return sp
}

// interpreter builds the hosted model client, or nil for local parsing.
func (e *env) interpreter(offline bool) (ai.Interpreter, string) {
	if offline {
		return nil, ""
	}
	key, source := credential.ResolveAPIKey(e.cfg.AI.Provider)
	interp, err := ai.New(e.cfg.AI, key)
	if err != nil {
		if !errors.Is(err, ai.ErrNoAPIKey) {
			slog.Warn("hosted interpretation disabled", "error", err)
		}
		return nil, ""
	}
	return interp, source
}

func (e *env) router(interp ai.Interpreter) *router.Router {
	return router.New(router.Config{
		Store:       e.store,
		Interpreter: interp,
		Speaker:     e.speaker,
		Timeout:     e.cfg.AI.Timeout(),
	})
}

func (e *env) heartbeat() *appsync.Heartbeat {
	return appsync.New(appsync.Config{
		Scheduler:          e.store,
		Notifier:           e.notifier,
		Speaker:            e.speaker,
		HeartbeatInterval:  time.Duration(e.cfg.Schedule.HeartbeatSec) * time.Second,
		SuggestionInterval: time.Duration(e.cfg.Schedule.SuggestionIntervalSec) * time.Second,
	})
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
	if err := e.blob.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
	if err := e.logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
	}
}
