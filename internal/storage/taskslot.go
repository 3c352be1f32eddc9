// Package storage adapts the key-value store to the task list and records event history.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/dohr-michael/daily/internal/storage/kv"
	"github.com/dohr-michael/daily/internal/tasks"
)

// Slot encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultTaskKey is the slot holding the serialized task list.
const DefaultTaskKey = "tasks"

// TaskSlot stores the whole task list in a single key-value slot.
// Every save rewrites the full sequence.
type TaskSlot struct {
	kv     kv.Store
	key    string
	format string
}

// NewTaskSlot creates a TaskSlot. Empty key and format fall back to defaults.
func NewTaskSlot(store kv.Store, key, format string) *TaskSlot {
	if key == "" {
		key = DefaultTaskKey
	}
	if format == "" {
		format = FormatJSON
	}
	return &TaskSlot{kv: store, key: key, format: format}
}

// Save encodes tasks and writes them to the slot.
func (s *TaskSlot) Save(list []tasks.Task) error {
	if list == nil {
		list = []tasks.Task{}
	}
	data, err := EncodeTasks(list, s.format)
	if err != nil {
		return err
	}
	if err := s.kv.Set(s.key, data); err != nil {
		return fmt.Errorf("write slot %s: %w", s.key, err)
	}
	return nil
}

// Load reads the slot. A missing slot or undecodable content yields an
// empty list; only read failures of the underlying store are returned.
func (s *TaskSlot) Load() ([]tasks.Task, error) {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", s.key, err)
	}
	if !ok {
		return []tasks.Task{}, nil
	}

	list, err := DecodeTasks(data, s.format)
	if err != nil {
		slog.Warn("storage: discarding undecodable task slot", "key", s.key, "error", err)
		return []tasks.Task{}, nil
	}
	return list, nil
}

// EncodeTasks serializes a task list in the given format.
func EncodeTasks(list []tasks.Task, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.Marshal(list)
		if err != nil {
			return nil, fmt.Errorf("marshal tasks: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(list)
		if err != nil {
			return nil, fmt.Errorf("marshal tasks: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// DecodeTasks parses a task list in the given format.
func DecodeTasks(data []byte, format string) ([]tasks.Task, error) {
	var list []tasks.Task
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("unmarshal tasks: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("unmarshal tasks: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if list == nil {
		list = []tasks.Task{}
	}
	return list, nil
}
