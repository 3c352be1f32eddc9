package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dohr-michael/daily/internal/events"
)

// EventLogger appends every bus event as one JSON line to a history file.
type EventLogger struct {
	mu          sync.Mutex
	path        string
	unsubscribe func()
}

// NewEventLogger subscribes to all events on bus and appends them to path.
func NewEventLogger(path string, bus *events.Bus) *EventLogger {
	el := &EventLogger{path: path}
	el.unsubscribe = bus.Subscribe(el.handleEvent)
	return el
}

// Close unsubscribes the logger from the event bus.
func (el *EventLogger) Close() {
	if el.unsubscribe != nil {
		el.unsubscribe()
	}
}

func (el *EventLogger) handleEvent(e events.Event) {
	if err := el.append(e); err != nil {
		slog.Debug("storage: history append failed", "error", err)
	}
}

func (el *EventLogger) append(e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	el.mu.Lock()
	defer el.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(el.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(el.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}

// ReadHistory returns the last limit events from a history file, oldest first.
// A missing file yields no events. Corrupted lines are skipped.
func ReadHistory(path string, limit int) ([]events.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var all []events.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e events.Event
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		all = append(all, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}

	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}
