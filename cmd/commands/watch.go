package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/daily/internal/config"
	"github.com/dohr-michael/daily/internal/events"
	"github.com/dohr-michael/daily/internal/heartbeat"
	"github.com/dohr-michael/daily/internal/reminders"
)

// NewWatchCommand returns the watch subcommand.
func NewWatchCommand() *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Run the reminder loop in the foreground (SIGHUP reloads notification settings)",
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	hb := heartbeat.NewWriter(config.HeartbeatPath(), a.storageLabel(), func() int {
		pending, err := a.center.Pending()
		if err != nil {
			return -1
		}
		return len(pending)
	})
	hb.Start()
	defer hb.Stop()

	unsubscribe := a.bus.Subscribe(func(events.Event) { hb.Beat() },
		events.EventReminderFired, events.EventReminderScheduled, events.EventReminderCancelled)
	defer unsubscribe()

	reloader := config.NewReloader(cmd.String("config"), config.DotenvPath(), a.cfg)
	reloader.OnReload(func(cfg *config.Config) {
		d, err := buildDeliverer(cfg.Notifications)
		if err != nil {
			slog.Warn("watch: keeping previous deliverer", "error", err)
			return
		}
		a.center.Reconfigure(d, cfg.Notifications.IsEnabled())
		<-a.center.RequestAuthorization(ctx, reminders.Options{Alert: true, Sound: cfg.Notifications.WantsSound()})
	})

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				if err := reloader.Reload(); err != nil {
					slog.Warn("watch: reload failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	slog.Info("watch: started", "storage", a.storageLabel(), "status", a.center.Status())
	return a.center.Run(ctx)
}
