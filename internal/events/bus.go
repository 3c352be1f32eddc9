// Package events provides an in-memory event bus for task and reminder lifecycle events.
package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// EventType represents the type of event.
type EventType string

const (
	// Task store
	EventTaskAdded   EventType = "task.added"
	EventTaskToggled EventType = "task.toggled"
	EventTaskDeleted EventType = "task.deleted"

	// Reminder centre
	EventReminderScheduled EventType = "reminder.scheduled"
	EventReminderCancelled EventType = "reminder.cancelled"
	EventReminderFired     EventType = "reminder.fired"
)

// EventSource identifies the component that emitted an event.
type EventSource string

const (
	SourceStore     EventSource = "store"
	SourceReminders EventSource = "reminders"
)

// Event represents an event in the system.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    EventSource    `json:"source"`
	Payload   map[string]any `json:"payload"`
}

var eventSeq uint64

func nextEventID() string {
	seq := atomic.AddUint64(&eventSeq, 1)
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), seq)
}

// Subscriber is a function that receives events.
type Subscriber func(Event)

const inboxSize = 64

// subscription owns one goroutine so its handler sees events in publish order.
type subscription struct {
	eventTypes []EventType
	handler    Subscriber
	inbox      chan Event
	quit       chan struct{}
	stopOnce   sync.Once
}

func (s *subscription) wants(t EventType) bool {
	if len(s.eventTypes) == 0 {
		return true
	}
	for _, want := range s.eventTypes {
		if want == t {
			return true
		}
	}
	return false
}

func (s *subscription) run(pending *sync.WaitGroup) {
	for {
		select {
		case e := <-s.inbox:
			s.handler(e)
			pending.Done()
		case <-s.quit:
			for {
				select {
				case <-s.inbox:
					pending.Done()
				default:
					return
				}
			}
		}
	}
}

func (s *subscription) stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

// Bus fans events out to subscribers from a single dispatch goroutine.
// Publishing never blocks: when the buffer is full the event is dropped.
// Each subscriber receives events in the order they were published.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]*subscription
	nextID      int
	queue       chan Event
	recent      *RingBuffer
	closed      bool
	done        chan struct{}
	stopped     chan struct{}
	handlers    sync.WaitGroup
}

// NewBus creates a new event bus with the given buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	b := &Bus{
		subscribers: make(map[int]*subscription),
		queue:       make(chan Event, bufferSize),
		recent:      NewRingBuffer(bufferSize),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	go b.dispatch()
	return b
}

func (b *Bus) dispatch() {
	defer close(b.stopped)
	for {
		select {
		case e := <-b.queue:
			b.deliver(e)
		case <-b.done:
			// Drain what was queued before Close.
			for {
				select {
				case e := <-b.queue:
					b.deliver(e)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(e Event) {
	b.recent.Add(e)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		if !sub.wants(e.Type) {
			continue
		}
		b.handlers.Add(1)
		select {
		case sub.inbox <- e:
		case <-sub.quit:
			b.handlers.Done()
		}
	}
}

// Publish enqueues an event. A nil bus is a no-op so callers can leave it unset.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.queue <- e:
	default:
	}
}

// Subscribe registers a handler for specific event types (all types when none given).
// Returns an unsubscribe function.
func (b *Bus) Subscribe(handler Subscriber, eventTypes ...EventType) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	sub := &subscription{
		eventTypes: eventTypes,
		handler:    handler,
		inbox:      make(chan Event, inboxSize),
		quit:       make(chan struct{}),
	}
	b.subscribers[id] = sub
	go sub.run(&b.handlers)

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
		sub.stop()
	}
}

// SubscribeChan returns a channel that receives events. Events are dropped when
// the channel buffer is full.
func (b *Bus) SubscribeChan(bufSize int, eventTypes ...EventType) (<-chan Event, func()) {
	ch := make(chan Event, bufSize)
	var once sync.Once
	var closing atomic.Bool

	unsubscribe := b.Subscribe(func(e Event) {
		if closing.Load() {
			return
		}
		select {
		case ch <- e:
		default:
		}
	}, eventTypes...)

	return ch, func() {
		once.Do(func() {
			closing.Store(true)
			unsubscribe()
		})
	}
}

// History returns up to limit recent events, oldest first.
func (b *Bus) History(limit int) []Event {
	return b.recent.Get(limit)
}

// Close shuts down the event bus. Further publishes are ignored. Events
// already queued are still delivered and Close returns once their handlers
// have run.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()

	<-b.stopped
	b.handlers.Wait()

	b.mu.Lock()
	for id, sub := range b.subscribers {
		sub.stop()
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// RingBuffer is a fixed-size circular buffer of events.
type RingBuffer struct {
	mu     sync.RWMutex
	events []Event
	pos    int
	count  int
}

// NewRingBuffer creates a new ring buffer.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{events: make([]Event, size)}
}

func (r *RingBuffer) Add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[r.pos] = e
	r.pos = (r.pos + 1) % len(r.events)
	if r.count < len(r.events) {
		r.count++
	}
}

func (r *RingBuffer) Get(n int) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}

	size := len(r.events)
	out := make([]Event, n)
	start := (r.pos - n + size) % size
	for i := 0; i < n; i++ {
		out[i] = r.events[(start+i)%size]
	}
	return out
}
