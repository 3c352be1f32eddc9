package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/daily/internal/config"
	"github.com/dohr-michael/daily/internal/events"
	"github.com/dohr-michael/daily/internal/reminders"
	"github.com/dohr-michael/daily/internal/storage"
	"github.com/dohr-michael/daily/internal/storage/kv"
	"github.com/dohr-michael/daily/internal/tasks"
)

type configKey struct{}

// configFrom returns the config loaded by the root Before hook.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// app holds every component a command may need, wired from the config.
type app struct {
	cfg       *config.Config
	kv        kv.Store
	bus       *events.Bus
	history   *storage.EventLogger
	center    *reminders.Center
	scheduler *reminders.Scheduler
	store     *tasks.Store
}

func openApp(ctx context.Context, cmd *cli.Command) (*app, error) {
	cfg := configFrom(ctx)

	if err := os.MkdirAll(config.DailyPath(), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := kv.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	mode, err := reminders.ParseMode(cfg.Reminders.Trigger)
	if err != nil {
		store.Close()
		return nil, err
	}
	deliverer, err := buildDeliverer(cfg.Notifications)
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &app{cfg: cfg, kv: store}
	a.bus = events.NewBus(cfg.Events.BufferSize)
	if cfg.Events.HistoryEnabled() {
		a.history = storage.NewEventLogger(config.HistoryPath(), a.bus)
	}

	a.center = reminders.NewCenter(reminders.Config{
		KV:           store,
		Key:          cfg.Reminders.Key,
		Deliverer:    deliverer,
		Enabled:      cfg.Notifications.IsEnabled(),
		PollInterval: cfg.Reminders.PollInterval.Duration(),
		Bus:          a.bus,
	})
	// The answer is recorded by the centre; nothing to check here.
	<-a.center.RequestAuthorization(ctx, reminders.Options{Alert: true, Sound: cfg.Notifications.WantsSound()})

	a.scheduler = reminders.NewScheduler(a.center, mode, cfg.Notifications.WantsSound())
	a.store = tasks.NewStore(tasks.Config{
		Persister:             storage.NewTaskSlot(store, cfg.Storage.Key, cfg.Storage.Format),
		Notifier:              a.scheduler,
		Bus:                   a.bus,
		KeepRemindersOnDelete: cfg.Reminders.KeepOnDelete,
	})
	a.store.Load()

	slog.Debug("app: opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path, "tasks", a.store.Len())
	return a, nil
}

// Close waits for pending reminder side effects, flushes the bus and closes storage.
func (a *app) Close() {
	a.store.Wait()
	a.bus.Close()
	if a.history != nil {
		a.history.Close()
	}
	if err := a.kv.Close(); err != nil {
		slog.Warn("app: close storage", "error", err)
	}
}

func (a *app) storageLabel() string {
	return a.cfg.Storage.Driver + ":" + a.cfg.Storage.Path
}

// buildDeliverer always logs reminders and also runs the configured command.
func buildDeliverer(n config.NotificationsConfig) (reminders.Deliverer, error) {
	if n.Command == "" {
		return reminders.LogDeliverer{}, nil
	}
	cmd, err := reminders.NewCommandDeliverer(n.Command)
	if err != nil {
		return nil, fmt.Errorf("notifications.command: %w", err)
	}
	return reminders.Multi{reminders.LogDeliverer{}, cmd}, nil
}
