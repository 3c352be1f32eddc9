package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/daily/clients/tui"
	"github.com/dohr-michael/daily/internal/config"
	"github.com/dohr-michael/daily/internal/heartbeat"
)

// NewTUICommand returns the tui subcommand.
func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive TUI",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// The terminal belongs to the TUI; logs go to a file.
			if err := os.MkdirAll(config.DailyPath(), 0o755); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}
			logFile, err := os.OpenFile(config.LogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			cfg := configFrom(ctx)
			logger, err := newLogger(logFile, cfg.Log.Level, cfg.Log.Format, cmd.Bool("debug"))
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			watcher, _, _ := heartbeat.Check(config.HeartbeatPath(), 2*heartbeat.DefaultInterval)
			runReminders := watcher != heartbeat.StatusAlive
			slog.Info("tui: starting", "run_reminders", runReminders, "tasks", a.store.Len())

			return tui.Run(ctx, tui.Options{
				Store:        a.store,
				Center:       a.center,
				Bus:          a.bus,
				RunReminders: runReminders,
			})
		},
	}
}
