package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dohr-michael/daily/internal/events"
	"github.com/dohr-michael/daily/internal/storage/kv"
)

// DefaultKey is the key-value slot holding pending registrations.
const DefaultKey = "reminders"

// DefaultPollInterval is how often Run checks for due reminders.
const DefaultPollInterval = 15 * time.Second

// AuthorizationStatus is the user's answer to the notification prompt.
type AuthorizationStatus string

const (
	StatusNotDetermined AuthorizationStatus = "not_determined"
	StatusAuthorized    AuthorizationStatus = "authorized"
	StatusDenied        AuthorizationStatus = "denied"
)

// Options lists what the application wants to present.
type Options struct {
	Alert bool
	Sound bool
}

// Authorization is the result of RequestAuthorization.
type Authorization struct {
	Granted bool
	Err     error
}

// Config holds dependencies for the centre.
type Config struct {
	KV           kv.Store
	Key          string
	Deliverer    Deliverer
	Enabled      bool // user-level switch; false denies authorization
	PollInterval time.Duration
	Bus          *events.Bus
	Now          func() time.Time
}

// Center keeps pending registrations in a key-value slot so that any
// process sharing the store (the TUI, a watcher) can fire them.
type Center struct {
	kv           kv.Store
	key          string
	deliverer    Deliverer
	enabled      bool
	pollInterval time.Duration
	bus          *events.Bus
	now          func() time.Time

	// authMu guards status, deliverer and enabled.
	authMu sync.RWMutex
	status AuthorizationStatus

	// mu serialises read-modify-write cycles on the slot.
	mu sync.Mutex

	// seqMu guards last, the completion channel of the most recently
	// queued Add or Remove. Each operation waits for its predecessor.
	seqMu sync.Mutex
	last  chan struct{}
}

// NewCenter creates a Center.
func NewCenter(cfg Config) *Center {
	c := &Center{
		kv:           cfg.KV,
		key:          cfg.Key,
		deliverer:    cfg.Deliverer,
		enabled:      cfg.Enabled,
		pollInterval: cfg.PollInterval,
		bus:          cfg.Bus,
		now:          cfg.Now,
		status:       StatusNotDetermined,
	}
	if c.key == "" {
		c.key = DefaultKey
	}
	if c.deliverer == nil {
		c.deliverer = LogDeliverer{}
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Status returns the current authorization status.
func (c *Center) Status() AuthorizationStatus {
	c.authMu.RLock()
	defer c.authMu.RUnlock()
	return c.status
}

// RequestAuthorization asks whether reminders may be presented. It is granted
// when notifications are enabled and the deliverer is available. Once denied,
// later registrations are silently dropped.
func (c *Center) RequestAuthorization(ctx context.Context, opts Options) <-chan Authorization {
	out := make(chan Authorization, 1)
	go func() {
		defer close(out)
		if err := ctx.Err(); err != nil {
			out <- Authorization{Err: err}
			return
		}

		c.authMu.Lock()
		var reason error
		switch {
		case !opts.Alert && !opts.Sound:
			reason = errors.New("no presentation options requested")
		case !c.enabled:
			reason = errors.New("notifications disabled in config")
		default:
			reason = c.deliverer.Available()
		}
		if reason == nil {
			c.status = StatusAuthorized
		} else {
			c.status = StatusDenied
		}
		c.authMu.Unlock()

		if reason != nil {
			slog.Warn("reminders: authorization denied", "reason", reason)
			out <- Authorization{Granted: false}
			return
		}
		slog.Debug("reminders: authorization granted", "alert", opts.Alert, "sound", opts.Sound)
		out <- Authorization{Granted: true}
	}()
	return out
}

// Reconfigure swaps the deliverer and the enabled switch and resets the
// authorization status. Callers ask for authorization again afterwards.
func (c *Center) Reconfigure(d Deliverer, enabled bool) {
	if d == nil {
		d = LogDeliverer{}
	}
	c.authMu.Lock()
	defer c.authMu.Unlock()
	c.deliverer = d
	c.enabled = enabled
	c.status = StatusNotDetermined
}

// Add registers req asynchronously, replacing any pending registration with
// the same id. The returned channel receives the error, if any, then closes.
func (c *Center) Add(ctx context.Context, req Request) <-chan error {
	return c.async(ctx, func() error {
		err := c.add(req)
		if err != nil {
			slog.Warn("reminders: add failed", "id", req.ID, "error", err)
		}
		return err
	})
}

// Remove withdraws pending registrations. Unknown ids are ignored.
func (c *Center) Remove(ctx context.Context, ids ...string) <-chan error {
	return c.async(ctx, func() error {
		err := c.remove(ids)
		if err != nil {
			slog.Warn("reminders: remove failed", "ids", ids, "error", err)
		}
		return err
	})
}

// async runs fn in the background. Operations run one at a time in call
// order, so a Remove issued after an Add for the same id always sees it.
func (c *Center) async(ctx context.Context, fn func() error) <-chan error {
	c.seqMu.Lock()
	prev := c.last
	done := make(chan struct{})
	c.last = done
	c.seqMu.Unlock()

	out := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(done)
		if prev != nil {
			<-prev
		}
		if err := ctx.Err(); err != nil {
			out <- err
			return
		}
		if err := fn(); err != nil {
			out <- err
		}
	}()
	return out
}

func (c *Center) add(req Request) error {
	if err := req.validate(); err != nil {
		return err
	}
	if c.Status() == StatusDenied {
		slog.Debug("reminders: not authorized, dropping registration", "id", req.ID)
		return nil
	}

	now := c.now()
	fireAt, ok := req.Trigger.Next(now)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNeverFires, req.Trigger)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pending, err := c.load()
	if err != nil {
		return err
	}
	reg := Registration{Request: req, FireAt: fireAt, CreatedAt: now}
	replaced := false
	for i := range pending {
		if pending[i].ID == req.ID {
			pending[i] = reg
			replaced = true
			break
		}
	}
	if !replaced {
		pending = append(pending, reg)
	}
	if err := c.save(pending); err != nil {
		return err
	}

	c.bus.Publish(events.NewTypedEvent(events.SourceReminders, events.ReminderScheduledPayload{
		ReminderID: req.ID,
		FireAt:     fireAt,
	}))
	slog.Info("reminders: scheduled", "id", req.ID, "fire_at", fireAt.Format(time.RFC3339))
	return nil
}

func (c *Center) remove(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pending, err := c.load()
	if err != nil {
		return err
	}
	kept := pending[:0]
	var removed []string
	for _, reg := range pending {
		if drop[reg.ID] {
			removed = append(removed, reg.ID)
			continue
		}
		kept = append(kept, reg)
	}
	if len(removed) == 0 {
		return nil
	}
	if err := c.save(kept); err != nil {
		return err
	}

	for _, id := range removed {
		c.bus.Publish(events.NewTypedEvent(events.SourceReminders, events.ReminderCancelledPayload{ReminderID: id}))
		slog.Info("reminders: cancelled", "id", id)
	}
	return nil
}

// Pending returns pending registrations ordered by fire time.
func (c *Center) Pending() ([]Registration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending, err := c.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].FireAt.Before(pending[j].FireAt)
	})
	return pending, nil
}

// Run fires due reminders every poll interval until ctx is cancelled.
func (c *Center) Run(ctx context.Context) error {
	slog.Info("reminders: loop started", "interval", c.pollInterval)
	c.FireDue(ctx)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reminders: loop stopped")
			return nil
		case <-ticker.C:
			c.FireDue(ctx)
		}
	}
}

// FireDue delivers every registration whose fire time has passed and removes
// it from the slot before delivery, so each fires at most once. Returns the
// number of reminders fired.
func (c *Center) FireDue(ctx context.Context) int {
	now := c.now()

	c.mu.Lock()
	pending, err := c.load()
	if err != nil {
		c.mu.Unlock()
		slog.Warn("reminders: load pending failed", "error", err)
		return 0
	}
	var due, rest []Registration
	for _, reg := range pending {
		if !reg.FireAt.After(now) {
			due = append(due, reg)
		} else {
			rest = append(rest, reg)
		}
	}
	if len(due) > 0 {
		if err := c.save(rest); err != nil {
			c.mu.Unlock()
			slog.Warn("reminders: save pending failed", "error", err)
			return 0
		}
	}
	c.mu.Unlock()

	c.authMu.RLock()
	authorized := c.status != StatusDenied
	deliverer := c.deliverer
	c.authMu.RUnlock()

	for _, reg := range due {
		if !authorized {
			slog.Debug("reminders: not authorized, dropping", "id", reg.ID)
			continue
		}
		n := Notification{ID: reg.ID, Content: reg.Content, FiredAt: now}
		if err := deliverer.Deliver(ctx, n); err != nil {
			slog.Warn("reminders: delivery failed", "id", reg.ID, "error", err)
		}
		c.bus.Publish(events.NewTypedEvent(events.SourceReminders, events.ReminderFiredPayload{
			ReminderID: reg.ID,
			Title:      reg.Content.Title,
			Body:       reg.Content.Body,
			Sound:      reg.Content.Sound,
		}))
	}
	return len(due)
}

// load reads pending registrations. Caller must hold c.mu.
func (c *Center) load() ([]Registration, error) {
	data, ok, err := c.kv.Get(c.key)
	if err != nil {
		return nil, fmt.Errorf("read pending reminders: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var pending []Registration
	if err := json.Unmarshal(data, &pending); err != nil {
		slog.Warn("reminders: discarding undecodable pending slot", "error", err)
		return nil, nil
	}
	return pending, nil
}

// save writes pending registrations. Caller must hold c.mu.
func (c *Center) save(pending []Registration) error {
	if pending == nil {
		pending = []Registration{}
	}
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal pending reminders: %w", err)
	}
	if err := c.kv.Set(c.key, data); err != nil {
		return fmt.Errorf("write pending reminders: %w", err)
	}
	return nil
}
