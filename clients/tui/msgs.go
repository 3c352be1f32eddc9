package tui

import "time"

// TasksChangedMsg signals that the store was mutated (here or by a bus event).
type TasksChangedMsg struct{}

// ReminderFiredMsg carries a delivered reminder for the banner.
type ReminderFiredMsg struct {
	ID    string
	Title string
	Body  string
}

// ReminderScheduledMsg reports a registration accepted by the centre.
type ReminderScheduledMsg struct {
	ID     string
	FireAt time.Time
}

// ReminderResultMsg carries the outcome of scheduling a task's reminder.
type ReminderResultMsg struct {
	TaskID string
	Err    error
}

// bannerExpiredMsg hides the banner identified by seq.
type bannerExpiredMsg struct {
	seq int
}

// eventsClosedMsg means the bus subscription is gone.
type eventsClosedMsg struct{}
