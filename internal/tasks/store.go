package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dohr-michael/daily/internal/events"
)

// Outcome reports the result of an asynchronous side effect (reminder
// registration or cancellation). It receives at most one error and is then
// closed. Callers may wait on it or ignore it.
type Outcome <-chan error

// Resolved returns an outcome that has already completed with err (nil for success).
func Resolved(err error) Outcome {
	ch := make(chan error, 1)
	if err != nil {
		ch <- err
	}
	close(ch)
	return ch
}

// Persister writes and restores the full task sequence.
type Persister interface {
	Save(tasks []Task) error
	Load() ([]Task, error)
}

// Notifier registers and withdraws one-shot reminders keyed by task ID.
type Notifier interface {
	Schedule(ctx context.Context, taskID, name string, due time.Time) Outcome
	Cancel(ctx context.Context, taskID string) Outcome
}

// Config holds dependencies for the store. Every field is optional.
type Config struct {
	Persister Persister
	Notifier  Notifier
	Bus       *events.Bus

	// KeepRemindersOnDelete leaves a deleted task's pending reminder registered.
	KeepRemindersOnDelete bool
}

// Store is the ordered task list. It is the single source of truth for rendering.
type Store struct {
	persister    Persister
	notifier     Notifier
	bus          *events.Bus
	keepOnDelete bool

	mu    sync.RWMutex
	tasks []Task

	inflight sync.WaitGroup
}

// NewStore creates an empty store. Call Load to restore persisted tasks.
func NewStore(cfg Config) *Store {
	return &Store{
		persister:    cfg.Persister,
		notifier:     cfg.Notifier,
		bus:          cfg.Bus,
		keepOnDelete: cfg.KeepRemindersOnDelete,
	}
}

// Load replaces the in-memory list with the persisted one. A failed load
// leaves the store empty.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
	if s.persister == nil {
		return
	}

	loaded, err := s.persister.Load()
	if err != nil {
		slog.Warn("tasks: load failed, starting empty", "error", err)
		return
	}

	seen := make(map[string]bool, len(loaded))
	for _, t := range loaded {
		if t.ID == "" || seen[t.ID] {
			slog.Warn("tasks: skipping record with missing or duplicate id", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		s.tasks = append(s.tasks, t.clone())
	}
	slog.Debug("tasks: loaded", "count", len(s.tasks))
}

// Add appends a new task. The returned outcome reports the reminder
// registration when due is set and is already closed otherwise.
func (s *Store) Add(ctx context.Context, name string, due *time.Time) (string, Outcome, error) {
	name, err := normalizeName(name)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{ID: s.freshID(), Name: name}
	if due != nil {
		d := *due
		t.DueTime = &d
	}
	s.tasks = append(s.tasks, t)
	s.persist()

	s.bus.Publish(events.NewTypedEvent(events.SourceStore, events.TaskAddedPayload{
		TaskID:  t.ID,
		Name:    t.Name,
		DueTime: t.DueTime,
	}))

	reminder := Resolved(nil)
	if t.DueTime != nil && s.notifier != nil {
		reminder = s.track(s.notifier.Schedule(ctx, t.ID, t.Name, *t.DueTime))
	}
	return t.ID, reminder, nil
}

// ToggleComplete flips the completion flag. Unknown ids are ignored.
func (s *Store) ToggleComplete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.persist()

	s.bus.Publish(events.NewTypedEvent(events.SourceStore, events.TaskToggledPayload{
		TaskID:    id,
		Completed: s.tasks[i].Completed,
	}))
}

// Delete removes a task. Unknown ids are ignored. The task's pending reminder
// is cancelled unless the store keeps reminders on delete.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persist()

	s.bus.Publish(events.NewTypedEvent(events.SourceStore, events.TaskDeletedPayload{
		TaskID: removed.ID,
		Name:   removed.Name,
	}))

	if removed.DueTime != nil && s.notifier != nil && !s.keepOnDelete {
		_ = s.track(s.notifier.Cancel(ctx, removed.ID))
	}
}

// List returns a snapshot of all tasks in insertion order.
func (s *Store) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Lookup resolves a full id or a unique id prefix. The "task_" prefix may be omitted.
func (s *Store) Lookup(ref string) (Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, ErrNotFound
	}
	if t, ok := s.Get(ref); ok {
		return t, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []Task
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) || strings.HasPrefix(strings.TrimPrefix(t.ID, "task_"), ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0].clone(), nil
	default:
		return Task{}, fmt.Errorf("ambiguous task id %q matches %d tasks", ref, len(matches))
	}
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// CompletedCount returns the number of completed tasks.
func (s *Store) CompletedCount() int {
	done, _ := s.Progress()
	return done
}

// Progress returns completed and total counts in one consistent read.
func (s *Store) Progress() (done, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.Completed {
			done++
		}
	}
	return done, len(s.tasks)
}

// Wait blocks until every reminder side effect started by Add or Delete has
// completed. Short-lived processes call it before exiting.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// track relays o through a buffered channel so Wait can observe completion
// whether or not the caller reads the outcome.
func (s *Store) track(o Outcome) Outcome {
	if o == nil {
		return Resolved(nil)
	}
	out := make(chan error, 1)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer close(out)
		if err, ok := <-o; ok && err != nil {
			out <- err
		}
	}()
	return out
}

// persist writes the full list. Failures are logged and otherwise ignored.
// Caller must hold s.mu.
func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	snapshot := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		snapshot[i] = t.clone()
	}
	if err := s.persister.Save(snapshot); err != nil {
		slog.Warn("tasks: save failed", "error", err)
	}
}

// indexOf returns the position of id, or -1. Caller must hold s.mu.
func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// freshID returns an id not present in the store. Caller must hold s.mu.
func (s *Store) freshID() string {
	for {
		id := GenerateTaskID()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}
