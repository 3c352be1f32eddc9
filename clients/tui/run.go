package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/dohr-michael/daily/internal/events"
	"github.com/dohr-michael/daily/internal/reminders"
	"github.com/dohr-michael/daily/internal/tasks"
)

// Options configure Run.
type Options struct {
	Store  *tasks.Store
	Center *reminders.Center
	Bus    *events.Bus

	// RunReminders starts the reminder loop for the lifetime of the TUI.
	// Leave it off when a watcher already fires reminders.
	RunReminders bool
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var ch <-chan events.Event
	if opts.Bus != nil {
		var unsubscribe func()
		ch, unsubscribe = opts.Bus.SubscribeChan(32,
			events.EventReminderFired,
			events.EventReminderScheduled,
		)
		defer unsubscribe()
	}

	var status func() string
	if opts.Center != nil {
		status = func() string { return string(opts.Center.Status()) }
		if opts.RunReminders {
			go func() {
				if err := opts.Center.Run(ctx); err != nil {
					slog.Warn("tui: reminder loop stopped", "error", err)
				}
			}()
		}
	}

	app := NewApp(Deps{
		Ctx:    ctx,
		Store:  opts.Store,
		Events: ch,
		Status: status,
		Now:    time.Now,
	})

	p := tea.NewProgram(app, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
