package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `{
	// Tasks live in SQLite
	"storage": {
		"driver": "sqlite",
		"path": "${{ .Env.DAILY_TEST_DB }}",
		"format": "yaml",
	},
	"reminders": {
		"trigger": "exact",
		"keep_on_delete": true,
		"poll_interval": "5s"
	},
	"notifications": {
		"enabled": false,
		"command": "notify-send \"$REMINDER_TITLE\" \"$REMINDER_BODY\""
	},
	"log": {"level": "debug", "format": "json"}
}`

	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DAILY_TEST_DB", "/tmp/daily-test.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("expected driver sqlite, got %s", cfg.Storage.Driver)
	}
	if cfg.Storage.Path != "/tmp/daily-test.db" {
		t.Errorf("expected expanded path, got %s", cfg.Storage.Path)
	}
	if cfg.Storage.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Storage.Format)
	}
	if cfg.Reminders.Trigger != "exact" {
		t.Errorf("expected trigger exact, got %s", cfg.Reminders.Trigger)
	}
	if !cfg.Reminders.KeepOnDelete {
		t.Error("expected keep_on_delete true")
	}
	if cfg.Reminders.PollInterval.Duration() != 5*time.Second {
		t.Errorf("expected poll interval 5s, got %s", cfg.Reminders.PollInterval.Duration())
	}
	if cfg.Notifications.IsEnabled() {
		t.Error("expected notifications disabled")
	}
	if !cfg.Notifications.WantsSound() {
		t.Error("expected sound to default to true")
	}
	if !strings.HasPrefix(cfg.Notifications.Command, "notify-send") {
		t.Errorf("unexpected command %q", cfg.Notifications.Command)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DAILY_PATH", "/data/daily")

	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Storage.Driver != "file" {
		t.Errorf("expected default driver file, got %s", cfg.Storage.Driver)
	}
	if cfg.Storage.Path != filepath.Join("/data/daily", "kv") {
		t.Errorf("expected default path under DAILY_PATH, got %s", cfg.Storage.Path)
	}
	if cfg.Storage.Format != "json" {
		t.Errorf("expected default format json, got %s", cfg.Storage.Format)
	}
	if cfg.Storage.Key != "tasks" {
		t.Errorf("expected default key tasks, got %s", cfg.Storage.Key)
	}
	if cfg.Reminders.Trigger != "time_of_day" {
		t.Errorf("expected default trigger time_of_day, got %s", cfg.Reminders.Trigger)
	}
	if cfg.Reminders.KeepOnDelete {
		t.Error("expected keep_on_delete to default to false")
	}
	if cfg.Reminders.PollInterval.Duration() != 15*time.Second {
		t.Errorf("expected default poll interval 15s, got %s", cfg.Reminders.PollInterval.Duration())
	}
	if !cfg.Notifications.IsEnabled() {
		t.Error("expected notifications enabled by default")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected default log config %+v", cfg.Log)
	}
	if !cfg.Events.HistoryEnabled() {
		t.Error("expected history enabled by default")
	}
	if cfg.Events.BufferSize != 256 {
		t.Errorf("expected default buffer size 256, got %d", cfg.Events.BufferSize)
	}
}

func TestLoadSQLiteDefaultPath(t *testing.T) {
	t.Setenv("DAILY_PATH", "/data/daily")

	cfg, err := Parse([]byte(`{"storage": {"driver": "sqlite"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Path != filepath.Join("/data/daily", "daily.db") {
		t.Errorf("expected sqlite path under DAILY_PATH, got %s", cfg.Storage.Path)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.jsonc"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Driver != "file" {
		t.Errorf("expected defaults, got driver %q", cfg.Storage.Driver)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.jsonc")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"driver", `{"storage": {"driver": "redis"}}`, "driver"},
		{"format", `{"storage": {"format": "toml"}}`, "format"},
		{"trigger", `{"reminders": {"trigger": "weekly"}}`, "trigger"},
		{"log level", `{"log": {"level": "verbose"}}`, "level"},
		{"slot key", `{"storage": {"key": "../tasks"}}`, "key"},
		{"same keys", `{"storage": {"key": "shared"}, "reminders": {"key": "shared"}}`, "must differ"},
		{"mysql without dsn", `{"storage": {"driver": "mysql"}}`, "storage.path"},
		{"poll interval", `{"reminders": {"poll_interval": "10ms"}}`, "poll_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte(`{"storage": `)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExpandEnvTemplates(t *testing.T) {
	t.Setenv("TEST_VAR", "hello")

	tests := []struct {
		input string
		want  string
	}{
		{`${{ .Env.TEST_VAR }}`, "hello"},
		{`${{.Env.TEST_VAR}}`, "hello"},
		{`prefix-${{ .Env.TEST_VAR }}-suffix`, "prefix-hello-suffix"},
		{`${{ .Env.NONEXISTENT_VAR_12345 }}`, ""},
		{`no template here`, "no template here"},
	}

	for _, tt := range tests {
		got := expandEnvTemplates(tt.input)
		if got != tt.want {
			t.Errorf("expandEnvTemplates(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	if err := d.UnmarshalJSON([]byte(`"1m30s"`)); err != nil {
		t.Fatal(err)
	}
	if d.Duration() != 90*time.Second {
		t.Errorf("got %s, want 1m30s", d.Duration())
	}
	out, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"1m30s"` {
		t.Errorf("MarshalJSON = %s", out)
	}
}
