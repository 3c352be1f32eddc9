// Package heartbeat lets `daily status` tell whether a reminder watcher is running.
package heartbeat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultInterval is how often the watcher refreshes its heartbeat.
const DefaultInterval = 30 * time.Second

// Status represents the liveness state of the watcher.
type Status string

const (
	StatusAlive Status = "alive"
	StatusStale Status = "stale"
	StatusDead  Status = "dead"
)

// Heartbeat is the data written to the heartbeat file.
type Heartbeat struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Pending   int       `json:"pending"`           // reminders waiting to fire
	Storage   string    `json:"storage,omitempty"` // driver:path of the watched store
}

// PendingFunc reports the number of pending reminders. A negative value
// means the count is unknown.
type PendingFunc func() int

// Writer periodically writes a heartbeat file to disk.
type Writer struct {
	path     string
	interval time.Duration
	storage  string
	pending  PendingFunc
	started  time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWriter creates a heartbeat writer for the watcher of storage.
// pending may be nil.
func NewWriter(path, storage string, pending PendingFunc) *Writer {
	return &Writer{
		path:     path,
		interval: DefaultInterval,
		storage:  storage,
		pending:  pending,
	}
}

// SetInterval changes the refresh interval. It has no effect once started.
func (w *Writer) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d > 0 && w.cancel == nil {
		w.interval = d
	}
}

// Start begins writing heartbeat files in a background goroutine.
func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return // already running
	}

	w.started = time.Now()
	w.done = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.write()

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.write()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Beat writes a heartbeat immediately, e.g. after reminders fired.
func (w *Writer) Beat() {
	w.mu.Lock()
	running := w.cancel != nil
	w.mu.Unlock()
	if running {
		w.write()
	}
}

// Stop stops writing and removes the heartbeat file.
func (w *Writer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel == nil {
		return
	}

	w.cancel()
	<-w.done
	w.cancel = nil

	os.Remove(w.path)
}

func (w *Writer) write() {
	hb := Heartbeat{
		PID:       os.Getpid(),
		StartedAt: w.started,
		Timestamp: time.Now(),
		Uptime:    time.Since(w.started).Truncate(time.Second).String(),
		Pending:   -1,
		Storage:   w.storage,
	}
	if w.pending != nil {
		hb.Pending = w.pending()
	}

	data, err := json.MarshalIndent(hb, "", "  ")
	if err != nil {
		return
	}

	// Atomic write: tmp + rename
	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		slog.Debug("heartbeat: write failed", "path", w.path, "error", err)
		return
	}
	if err := os.Rename(tmp, w.path); err != nil {
		slog.Debug("heartbeat: rename failed", "path", w.path, "error", err)
	}
}

// Check reads a heartbeat file and returns the liveness status.
// maxAge determines how old a heartbeat can be before it's considered stale.
func Check(path string, maxAge time.Duration) (Status, *Heartbeat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusDead, nil, nil
		}
		return StatusDead, nil, fmt.Errorf("read heartbeat: %w", err)
	}

	var hb Heartbeat
	if err := json.Unmarshal(data, &hb); err != nil {
		return StatusDead, nil, fmt.Errorf("unmarshal heartbeat: %w", err)
	}

	if time.Since(hb.Timestamp) > maxAge {
		return StatusStale, &hb, nil
	}
	return StatusAlive, &hb, nil
}
