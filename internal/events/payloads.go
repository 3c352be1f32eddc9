package events

import (
	"encoding/json"
	"time"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// =============================================================================
// TASK EVENTS
// =============================================================================

type TaskAddedPayload struct {
	TaskID  string     `json:"task_id"`
	Name    string     `json:"name"`
	DueTime *time.Time `json:"due_time,omitempty"`
}

func (TaskAddedPayload) EventType() EventType { return EventTaskAdded }

type TaskToggledPayload struct {
	TaskID    string `json:"task_id"`
	Completed bool   `json:"completed"`
}

func (TaskToggledPayload) EventType() EventType { return EventTaskToggled }

type TaskDeletedPayload struct {
	TaskID string `json:"task_id"`
	Name   string `json:"name"`
}

func (TaskDeletedPayload) EventType() EventType { return EventTaskDeleted }

// =============================================================================
// REMINDER EVENTS
// =============================================================================

type ReminderScheduledPayload struct {
	ReminderID string    `json:"reminder_id"`
	FireAt     time.Time `json:"fire_at"`
}

func (ReminderScheduledPayload) EventType() EventType { return EventReminderScheduled }

type ReminderCancelledPayload struct {
	ReminderID string `json:"reminder_id"`
}

func (ReminderCancelledPayload) EventType() EventType { return EventReminderCancelled }

type ReminderFiredPayload struct {
	ReminderID string `json:"reminder_id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Sound      bool   `json:"sound,omitempty"`
}

func (ReminderFiredPayload) EventType() EventType { return EventReminderFired }

// NewTypedEvent builds an event from a typed payload.
func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        nextEventID(),
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func toMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// ExtractPayload decodes the event payload into T.
// Returns false when the event type does not match T or decoding fails.
func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var out T
	if e.Type != out.EventType() {
		return out, false
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	return out, true
}
