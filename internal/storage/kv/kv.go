// Package kv provides small durable key-value stores used as named settings slots.
package kv

import (
	"errors"
	"fmt"
	"regexp"
)

// Store is a durable key-value store. Values are opaque bytes.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set writes value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	Close() error
}

// Supported drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// ErrInvalidKey is returned for keys that cannot be stored.
var ErrInvalidKey = errors.New("invalid key")

var keyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func checkKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open opens a store for the given driver. For "file", path is a directory;
// for "sqlite", path is the database file; for "mysql", path is a DSN.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStore(path)
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverMySQL:
		return OpenMySQL(path)
	default:
		return nil, fmt.Errorf("unknown kv driver %q", driver)
	}
}
