// Package tasks holds the ordered, in-memory task list and its lifecycle operations.
package tasks

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do record.
type Task struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	DueTime   *time.Time `json:"due_time,omitempty" yaml:"due_time,omitempty"`
	Completed bool       `json:"completed" yaml:"completed"`
}

// HasReminder reports whether the task carries a due time.
func (t Task) HasReminder() bool {
	return t.DueTime != nil
}

// clone returns a copy that shares no pointers with t.
func (t Task) clone() Task {
	if t.DueTime != nil {
		due := *t.DueTime
		t.DueTime = &due
	}
	return t
}

// GenerateTaskID creates a unique task identifier.
func GenerateTaskID() string {
	return "task_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
