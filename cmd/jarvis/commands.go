package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nhle/jarvis/internal/ai"
	"github.com/nhle/jarvis/internal/credential"
	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/state"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "add <command...>",
		Short: "Add a task from a free-text command",
		Example: `  jarvis add Call Mom tomorrow at 5pm
  jarvis add --offline urgent fix the build`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.close()

			interp, _ := e.interpreter(offline)
			out := e.router(interp).Handle(cmd.Context(), strings.Join(args, " "))
			if out.Err != nil {
				return out.Err
			}

			w := cmd.OutOrStdout()
			switch {
			case out.Intent == ai.IntentDelete && out.Task != nil:
				fmt.Fprintf(w, "Removed: %s\n", out.Task.Text)
			case out.Intent == ai.IntentDelete:
				fmt.Fprintln(w, "Nothing to remove")
			case out.Task != nil:
				fmt.Fprintf(w, "Scheduled: %s (%s)\n", out.Task.Text, out.Task.Time)
				if out.Task.Type == model.TypeConflict {
					fmt.Fprintln(w, "Warning: overlaps another task")
				}
			}
			if out.Response != "" {
				fmt.Fprintln(w, out.Response)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "use the local parser only")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the schedule",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts, history)
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "print completed tasks instead")
	return cmd
}

func runList(cmd *cobra.Command, opts *rootOptions, history bool) error {
	e, err := openEnv(cmd.Context(), opts, false)
	if err != nil {
		return err
	}
	defer e.close()

	w := cmd.OutOrStdout()
	now := time.Now()

	if history {
		for _, h := range e.store.History() {
			fmt.Fprintf(w, "%s  +%d XP  %s\n",
				h.CompletedAt.Local().Format("2006-01-02 15:04"), h.XPEarned, h.Text)
		}
		return nil
	}

	p := e.store.Profile()
	fmt.Fprintf(w, "%s · level %d · %d XP\n", p.Name, p.Level, p.XP)
	printSchedule(w, e.store.Schedule(), now)
	return nil
}

// printSchedule writes one numbered line per task. The numbers are what
// done and rm accept.
func printSchedule(w io.Writer, tasks []model.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "Schedule is clear.")
		return
	}
	for i, t := range tasks {
		when := model.TimeTBD
		if t.Instant != nil {
			when = t.Time + " (" + humanize.RelTime(*t.Instant, now, "ago", "from now") + ")"
		}

		var flags []string
		if t.Type == model.TypeConflict {
			flags = append(flags, "conflict")
		}
		if t.IsUrgent {
			flags = append(flags, "urgent")
		}
		if t.IsImportant {
			flags = append(flags, "important")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Fprintf(w, "%3d. %-28s %s%s\n", i+1, when, t.Text, suffix)
	}
}

// resolveTask accepts a list number or a full task ID.
func resolveTask(tasks []model.Task, ref string) (model.Task, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(tasks) {
			return model.Task{}, fmt.Errorf("no task number %d: %w", n, state.ErrTaskNotFound)
		}
		return tasks[n-1], nil
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("%q: %w", ref, state.ErrTaskNotFound)
}

func newDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <number|id>",
		Short: "Complete a task and earn XP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.close()

			t, err := resolveTask(e.store.Schedule(), args[0])
			if err != nil {
				return err
			}
			h, ok := e.store.CompleteTask(t.ID)
			if !ok {
				return state.ErrTaskNotFound
			}
			p := e.store.Profile()
			fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s (+%d XP, level %d)\n", h.Text, h.XPEarned, p.Level)
			return nil
		},
	}
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <number|id>",
		Aliases: []string{"remove"},
		Short:   "Remove a task without completing it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.close()

			t, err := resolveTask(e.store.Schedule(), args[0])
			if err != nil {
				return err
			}
			e.store.RemoveTask(t.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", t.Text)
			return nil
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write a JSON backup of the full state (- for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.close()

			data, err := e.store.Export()
			if err != nil {
				return err
			}

			path := state.BackupFileName(time.Now())
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("writing backup %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			return nil
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the state with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading backup %s: %w", args[0], err)
			}

			e, err := openEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.Import(data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d task(s) from %s\n", len(e.store.Schedule()), args[0])
			return nil
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase schedule, history, XP and logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			e, err := openEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "System reset complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the hosted model API key in the system keyring",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [key]",
			Short: "Store the API key (read from stdin when omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key := ""
				if len(args) == 1 {
					key = args[0]
				} else {
					line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if err != nil && !errors.Is(err, io.EOF) {
						return fmt.Errorf("reading key: %w", err)
					}
					key = line
				}
				key = strings.TrimSpace(key)
				if key == "" {
					return errors.New("empty key")
				}
				if err := credential.Set(credential.APIKeyName, key); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key stored")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := credential.Delete(credential.APIKeyName); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
				return nil
			},
		},
	)
	return cmd
}

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the heartbeat without the dashboard",
		Long: `Runs the due-task announcements and the suggestion engine in the
foreground until interrupted. Useful under a session manager.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := openEnv(ctx, opts, false)
			if err != nil {
				return err
			}
			defer e.close()

			fmt.Fprintln(cmd.OutOrStdout(), "JARVIS heartbeat online. Ctrl+C to stop.")
			err = e.heartbeat().Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
