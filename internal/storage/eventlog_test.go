package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dohr-michael/daily/internal/events"
)

func waitForLines(t *testing.T, path string, n int) []events.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := ReadHistory(path, 0)
		if err != nil {
			t.Fatalf("ReadHistory: %v", err)
		}
		if len(got) >= n || time.Now().After(deadline) {
			return got
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestEventLogger_WriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	bus := events.NewBus(64)
	defer bus.Close()

	el := NewEventLogger(path, bus)
	defer el.Close()

	bus.Publish(events.NewTypedEvent(events.SourceStore, events.TaskAddedPayload{
		TaskID: "task_1",
		Name:   "Buy milk",
	}))

	got := waitForLines(t, path, 1)
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Type != events.EventTaskAdded {
		t.Errorf("got type %q, want %q", got[0].Type, events.EventTaskAdded)
	}
	p, ok := events.ExtractPayload[events.TaskAddedPayload](got[0])
	if !ok || p.Name != "Buy milk" {
		t.Errorf("payload = %+v, ok %v", p, ok)
	}
}

func TestReadHistoryLimitAndCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"id":"1","type":"task.added"}
not json
{"id":"2","type":"task.toggled"}

{"id":"3","type":"task.deleted"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadHistory(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("unexpected history: %+v", got)
	}
}

func TestReadHistoryMissingFile(t *testing.T) {
	got, err := ReadHistory(filepath.Join(t.TempDir(), "nope.jsonl"), 10)
	if err != nil {
		t.Fatalf("ReadHistory: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestEventLogger_KeepsPublishOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	bus := events.NewBus(256)
	el := NewEventLogger(path, bus)

	for i := 0; i < 50; i++ {
		bus.Publish(events.NewTypedEvent(events.SourceStore, events.TaskAddedPayload{TaskID: "task_1", Name: "x"}))
		bus.Publish(events.NewTypedEvent(events.SourceStore, events.TaskDeletedPayload{TaskID: "task_1", Name: "x"}))
	}
	bus.Close()
	el.Close()

	got, err := ReadHistory(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 100 {
		t.Fatalf("got %d events, want 100", len(got))
	}
	for i, e := range got {
		want := events.EventTaskAdded
		if i%2 == 1 {
			want = events.EventTaskDeleted
		}
		if e.Type != want {
			t.Fatalf("event %d = %s, want %s", i, e.Type, want)
		}
	}
}
