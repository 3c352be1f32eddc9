package config

import (
	"os"
	"path/filepath"
)

// DailyPath returns the root directory for daily data.
// It uses $DAILY_PATH if set, otherwise defaults to ~/.daily.
func DailyPath() string {
	if v := os.Getenv("DAILY_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".daily")
	}
	return filepath.Join(home, ".daily")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(DailyPath(), "config.jsonc")
}

// DotenvPath returns the path to the .env file.
func DotenvPath() string {
	return filepath.Join(DailyPath(), ".env")
}

// HeartbeatPath returns the path of the reminder watcher's heartbeat file.
func HeartbeatPath() string {
	return filepath.Join(DailyPath(), "watch.heartbeat.json")
}

// HistoryPath returns the path of the event history log.
func HistoryPath() string {
	return filepath.Join(DailyPath(), "history.jsonl")
}

// LogPath returns the log file used while the TUI owns the terminal.
func LogPath() string {
	return filepath.Join(DailyPath(), "daily.log")
}
