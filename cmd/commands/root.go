package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/daily/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "daily",
		Usage: "A daily task list with reminders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: loadConfig,
		Commands: []*cli.Command{
			NewAddCommand(),
			NewListCommand(),
			NewDoneCommand(),
			NewRemoveCommand(),
			NewRemindersCommand(),
			NewWatchCommand(),
			NewStatusCommand(),
			NewHistoryCommand(),
			NewExportCommand(),
			NewEnvCommand(),
			NewTUICommand(),
		},
		DefaultCommand: "list",
	}
}

func loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return ctx, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format, cmd.Bool("debug"))
	if err != nil {
		return ctx, err
	}
	slog.SetDefault(logger)
	slog.Debug("config loaded", "path", path)

	return context.WithValue(ctx, configKey{}, cfg), nil
}
