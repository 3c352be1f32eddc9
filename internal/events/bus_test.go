package events

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	var received []Event

	bus.Subscribe(func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	}, EventTaskAdded)

	bus.Publish(NewTypedEvent(SourceStore, TaskAddedPayload{TaskID: "task_1", Name: "Buy milk"}))
	bus.Publish(NewTypedEvent(SourceStore, TaskToggledPayload{TaskID: "task_1", Completed: true}))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Type != EventTaskAdded {
		t.Errorf("expected task.added, got %s", received[0].Type)
	}
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	count := 0

	bus.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(NewTypedEvent(SourceStore, TaskAddedPayload{TaskID: "a"}))
	bus.Publish(NewTypedEvent(SourceReminders, ReminderCancelledPayload{ReminderID: "a"}))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}
}

func TestSubscribeChan(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	ch, unsub := bus.SubscribeChan(4, EventReminderFired)
	defer unsub()

	bus.Publish(NewTypedEvent(SourceReminders, ReminderFiredPayload{
		ReminderID: "task_1",
		Title:      "Reminder",
		Body:       "Task: Buy milk",
	}))

	select {
	case e := <-ch:
		p, ok := ExtractPayload[ReminderFiredPayload](e)
		if !ok {
			t.Fatal("failed to extract reminder payload")
		}
		if p.Body != "Task: Buy milk" {
			t.Errorf("body = %q", p.Body)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestExtractPayloadWrongType(t *testing.T) {
	e := NewTypedEvent(SourceStore, TaskAddedPayload{TaskID: "x"})
	if _, ok := ExtractPayload[TaskDeletedPayload](e); ok {
		t.Error("expected extraction to fail for mismatched type")
	}
}

func TestPublishNilBus(t *testing.T) {
	var bus *Bus
	bus.Publish(NewTypedEvent(SourceStore, TaskAddedPayload{TaskID: "x"}))
}

func TestPublishAfterClose(t *testing.T) {
	bus := NewBus(4)
	bus.Close()
	bus.Publish(NewTypedEvent(SourceStore, TaskAddedPayload{TaskID: "x"}))
	bus.Close()
}

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 0; i < 5; i++ {
		rb.Add(Event{ID: string(rune('a' + i))})
	}

	got := rb.Get(10)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].ID != "c" || got[2].ID != "e" {
		t.Errorf("unexpected order: %q..%q", got[0].ID, got[2].ID)
	}
}

func TestHistory(t *testing.T) {
	bus := NewBus(8)
	defer bus.Close()

	bus.Publish(NewTypedEvent(SourceStore, TaskAddedPayload{TaskID: "a"}))
	bus.Publish(NewTypedEvent(SourceStore, TaskDeletedPayload{TaskID: "a"}))

	deadline := time.Now().Add(time.Second)
	for len(bus.History(10)) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	hist := bus.History(10)
	if len(hist) != 2 {
		t.Fatalf("expected 2 events in history, got %d", len(hist))
	}
	if hist[1].Type != EventTaskDeleted {
		t.Errorf("last event = %s, want task.deleted", hist[1].Type)
	}
}

func TestCloseDeliversQueuedEvents(t *testing.T) {
	bus := NewBus(16)

	var mu sync.Mutex
	var got []string
	bus.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.ID)
	})

	for i := 0; i < 5; i++ {
		bus.Publish(NewTypedEvent(SourceStore, TaskAddedPayload{TaskID: "x"}))
	}
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 5 {
		t.Errorf("handled %d events before Close returned, want 5", len(got))
	}
}

func TestSubscriberSeesPublishOrder(t *testing.T) {
	bus := NewBus(256)

	var mu sync.Mutex
	var got []string
	bus.Subscribe(func(e Event) {
		p, ok := ExtractPayload[TaskAddedPayload](e)
		if !ok {
			return
		}
		mu.Lock()
		got = append(got, p.Name)
		mu.Unlock()
	})

	var want []string
	for i := 0; i < 100; i++ {
		name := fmt.Sprintf("task-%03d", i)
		want = append(want, name)
		bus.Publish(NewTypedEvent(SourceStore, TaskAddedPayload{TaskID: name, Name: name}))
	}
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("handled %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	var mu sync.Mutex
	count := 0
	unsubscribe := bus.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	unsubscribe()
	unsubscribe()

	bus.Publish(NewTypedEvent(SourceStore, TaskAddedPayload{TaskID: "x"}))
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("handled %d events after unsubscribe, want 0", count)
	}
}
