package reminders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Notification is a fired reminder handed to a Deliverer.
type Notification struct {
	ID      string
	Content Content
	FiredAt time.Time
}

// Deliverer presents fired reminders to the user.
type Deliverer interface {
	// Available reports whether the deliverer can present anything at all.
	Available() error
	Deliver(ctx context.Context, n Notification) error
}

// LogDeliverer writes fired reminders to the structured log.
type LogDeliverer struct{}

func (LogDeliverer) Available() error { return nil }

func (LogDeliverer) Deliver(_ context.Context, n Notification) error {
	slog.Info("reminders: "+n.Content.Title, "id", n.ID, "body", n.Content.Body)
	return nil
}

// CommandTimeout bounds a single notification command run.
const CommandTimeout = 30 * time.Second

// CommandDeliverer runs a shell snippet per reminder, e.g.
// notify-send "$REMINDER_TITLE" "$REMINDER_BODY". The snippet is interpreted
// in-process by mvdan.cc/sh.
type CommandDeliverer struct {
	script string
	file   *syntax.File
}

// NewCommandDeliverer parses script once. An empty script yields a
// deliverer that reports itself unavailable.
func NewCommandDeliverer(script string) (*CommandDeliverer, error) {
	d := &CommandDeliverer{script: strings.TrimSpace(script)}
	if d.script == "" {
		return d, nil
	}
	file, err := syntax.NewParser().Parse(strings.NewReader(d.script), "notify")
	if err != nil {
		return nil, fmt.Errorf("parse notification command: %w", err)
	}
	d.file = file
	return d, nil
}

func (d *CommandDeliverer) Available() error {
	if d.file == nil {
		return errors.New("no notification command configured")
	}
	return nil
}

func (d *CommandDeliverer) Deliver(ctx context.Context, n Notification) error {
	if d.file == nil {
		return d.Available()
	}

	sound := ""
	if n.Content.Sound {
		sound = "default"
	}
	env := append(os.Environ(),
		"REMINDER_ID="+n.ID,
		"REMINDER_TITLE="+n.Content.Title,
		"REMINDER_BODY="+n.Content.Body,
		"REMINDER_SOUND="+sound,
	)

	var stderr bytes.Buffer
	runner, err := interp.New(
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, io.Discard, &stderr),
	)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, CommandTimeout)
	defer cancel()

	if err := runner.Run(ctx, d.file); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("notification command: %w: %s", err, msg)
		}
		return fmt.Errorf("notification command: %w", err)
	}
	return nil
}

// Multi fans a notification out to several deliverers.
type Multi []Deliverer

// Available succeeds when at least one deliverer is available.
func (m Multi) Available() error {
	var errs []error
	for _, d := range m {
		err := d.Available()
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return errors.New("no deliverers configured")
	}
	return errors.Join(errs...)
}

// Deliver hands n to every available deliverer and joins their errors.
func (m Multi) Deliver(ctx context.Context, n Notification) error {
	var errs []error
	for _, d := range m {
		if d.Available() != nil {
			continue
		}
		if err := d.Deliver(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
