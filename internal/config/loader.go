package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"
)

var envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)

var slotKeyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Load reads a JSONC config file, expands ${{ .Env.VAR }} templates,
// strips comments and trailing commas, applies defaults and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load but returns the defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default returns a config with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Parse decodes JSONC config content.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvTemplates(string(data))

	std, err := hujson.Standardize([]byte(expanded))
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "file"
	}
	if cfg.Storage.Path == "" {
		switch cfg.Storage.Driver {
		case "sqlite":
			cfg.Storage.Path = filepath.Join(DailyPath(), "daily.db")
		case "file":
			cfg.Storage.Path = filepath.Join(DailyPath(), "kv")
		}
	}
	if cfg.Storage.Format == "" {
		cfg.Storage.Format = "json"
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = "tasks"
	}
	if cfg.Reminders.Trigger == "" {
		cfg.Reminders.Trigger = "time_of_day"
	}
	if cfg.Reminders.PollInterval == 0 {
		cfg.Reminders.PollInterval = Duration(15 * time.Second)
	}
	if cfg.Reminders.Key == "" {
		cfg.Reminders.Key = "reminders"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = 256
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slotkey", func(fl validator.FieldLevel) bool {
		return slotKeyRe.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks enumerations and ranges.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("invalid config: storage.path is required for driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Key == cfg.Reminders.Key {
		return fmt.Errorf("invalid config: storage.key and reminders.key must differ")
	}
	if cfg.Reminders.PollInterval.Duration() < time.Second {
		return fmt.Errorf("invalid config: reminders.poll_interval must be at least 1s")
	}
	return nil
}
