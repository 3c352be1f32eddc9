// Package config loads the daily configuration from a JSONC file.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Storage       StorageConfig       `json:"storage"`
	Reminders     RemindersConfig     `json:"reminders"`
	Notifications NotificationsConfig `json:"notifications"`
	Log           LogConfig           `json:"log"`
	Events        EventsConfig        `json:"events"`
}

// StorageConfig selects the key-value backend holding the task list.
type StorageConfig struct {
	Driver string `json:"driver" validate:"oneof=file sqlite mysql"`
	Path   string `json:"path"`   // default: $DAILY_PATH/kv (file) or $DAILY_PATH/daily.db (sqlite); DSN for mysql
	Format string `json:"format" validate:"oneof=json yaml"`
	Key    string `json:"key" validate:"required,slotkey"`
}

// RemindersConfig controls how task due times become reminders.
type RemindersConfig struct {
	Trigger      string   `json:"trigger" validate:"oneof=time_of_day exact"`
	KeepOnDelete bool     `json:"keep_on_delete"` // leave a deleted task's reminder pending
	PollInterval Duration `json:"poll_interval"`
	Key          string   `json:"key" validate:"required,slotkey"`
}

// NotificationsConfig controls reminder delivery.
type NotificationsConfig struct {
	Enabled *bool  `json:"enabled,omitempty"` // default true
	Sound   *bool  `json:"sound,omitempty"`   // default true
	Command string `json:"command,omitempty"` // shell snippet; REMINDER_* vars are set
}

// IsEnabled reports whether notifications may be presented.
func (n NotificationsConfig) IsEnabled() bool {
	return n.Enabled == nil || *n.Enabled
}

// WantsSound reports whether reminders request a sound.
func (n NotificationsConfig) WantsSound() bool {
	return n.Sound == nil || *n.Sound
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `json:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" validate:"oneof=text json"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int   `json:"buffer_size" validate:"gt=0"`
	History    *bool `json:"history,omitempty"` // append events to history.jsonl, default true
}

// HistoryEnabled reports whether events are appended to the history file.
func (e EventsConfig) HistoryEnabled() bool {
	return e.History == nil || *e.History
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
