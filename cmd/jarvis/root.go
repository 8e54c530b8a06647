package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nhle/jarvis/internal/app"
	"github.com/nhle/jarvis/internal/capability"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/theme"
)

type rootOptions struct {
	configPath string
	dataPath   string
	verbose    bool
	// quiet disables speech and desktop notifications.
	quiet bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "jarvis",
		Short: "A terminal personal assistant for your schedule",
		Long: `JARVIS turns free-text commands like "Call Mom tomorrow at 5pm" into a
scheduled, prioritized task list. Run without arguments to open the
dashboard, or use the subcommands from scripts.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return runList(cmd, opts, false)
			}
			return runTUI(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "path to the YAML config file")
	flags.StringVar(&opts.dataPath, "data", "", "override storage.path from the config")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "disable speech and desktop notifications")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newDoneCmd(opts),
		newRmCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newResetCmd(opts),
		newKeyCmd(),
		newDaemonCmd(opts),
	)
	return root
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runTUI opens the dashboard and blocks until the user quits.
func runTUI(ctx context.Context, opts *rootOptions) error {
	e, err := openEnv(ctx, opts, true)
	if err != nil {
		return err
	}
	defer e.close()

	theme.Apply(e.cfg.Display.Theme)

	interp, keySource := e.interpreter(false)
	var tones capability.Tones = capability.NewBeepTones()
	if opts.quiet {
		tones = capability.Nop{}
	}

	m := app.New(app.Deps{
		Store:      e.store,
		Router:     e.router(interp),
		Heartbeat:  e.heartbeat(),
		Listener:   capability.NewListener(e.cfg.Voice.ListenCommand),
		Tones:      tones,
		Config:     e.cfg,
		ConfigPath: e.configPath,
		KeySource:  keySource,
		Now:        time.Now,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	err = model.WatchConfig(e.configPath,
		func(cfg *model.AppConfig) { p.Send(app.ConfigReloadedMsg{Config: cfg}) },
		func(err error) { slog.Warn("ignoring invalid config change", "error", err) },
	)
	if err != nil {
		slog.Debug("config hot reload disabled", "error", err)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
