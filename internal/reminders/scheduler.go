package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/dohr-michael/daily/internal/tasks"
)

// Mode selects which components of a due time a task reminder keeps.
type Mode string

const (
	// ModeTimeOfDay keeps hour and minute; the date is discarded.
	ModeTimeOfDay Mode = "time_of_day"
	// ModeExact keeps the calendar date as well.
	ModeExact Mode = "exact"
)

// ParseMode validates a mode string. Empty means ModeTimeOfDay.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTimeOfDay:
		return ModeTimeOfDay, nil
	case ModeExact:
		return ModeExact, nil
	default:
		return "", fmt.Errorf("unknown reminder trigger mode %q", s)
	}
}

// Scheduler turns task due times into reminder registrations keyed by task id.
// It implements tasks.Notifier.
type Scheduler struct {
	center *Center
	mode   Mode
	sound  bool
}

// NewScheduler creates a Scheduler on top of center.
func NewScheduler(center *Center, mode Mode, sound bool) *Scheduler {
	if mode == "" {
		mode = ModeTimeOfDay
	}
	return &Scheduler{center: center, mode: mode, sound: sound}
}

// TriggerFor builds the trigger for a due time according to the mode.
func (s *Scheduler) TriggerFor(due time.Time) Trigger {
	if s.mode == ModeExact {
		return Exact(due)
	}
	return TimeOfDay(due)
}

// Schedule registers a one-shot reminder for the task.
func (s *Scheduler) Schedule(ctx context.Context, taskID, name string, due time.Time) tasks.Outcome {
	return s.center.Add(ctx, Request{
		ID:      taskID,
		Content: NewTaskContent(name, s.sound),
		Trigger: s.TriggerFor(due),
	})
}

// Cancel withdraws the task's pending reminder, if any.
func (s *Scheduler) Cancel(ctx context.Context, taskID string) tasks.Outcome {
	return s.center.Remove(ctx, taskID)
}

var _ tasks.Notifier = (*Scheduler)(nil)
