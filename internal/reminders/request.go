// Package reminders is a local notification centre: one-shot reminder
// registrations keyed by identifier, persisted in a key-value slot and
// delivered when their calendar trigger comes due.
package reminders

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTitle is the title of every task reminder.
const DefaultTitle = "Reminder"

// Content is what the user sees when a reminder fires.
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound bool   `json:"sound,omitempty"`
}

// NewTaskContent builds the content for a task reminder.
func NewTaskContent(name string, sound bool) Content {
	return Content{
		Title: DefaultTitle,
		Body:  "Task: " + name,
		Sound: sound,
	}
}

// Request registers one reminder. Registrations are one-shot: once
// delivered they are removed and never re-armed.
type Request struct {
	ID      string  `json:"id"`
	Content Content `json:"content"`
	Trigger Trigger `json:"trigger"`
}

// Registration is a pending request with its computed fire time.
type Registration struct {
	Request
	FireAt    time.Time `json:"fire_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrNeverFires is returned for triggers with no future occurrence.
var ErrNeverFires = errors.New("trigger has no future occurrence")

func (r Request) validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("reminder id is required")
	}
	return r.Trigger.Validate()
}
