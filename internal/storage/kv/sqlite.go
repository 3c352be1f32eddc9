package kv

import (
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	driver: "sqlite",
	setup: []string{
		`PRAGMA busy_timeout = 5000`,
		"CREATE TABLE IF NOT EXISTS kv (\n" +
			"\t`key`      TEXT PRIMARY KEY,\n" +
			"\tvalue      BLOB NOT NULL,\n" +
			"\tupdated_at TEXT NOT NULL\n" +
			")",
	},
	upsert: "INSERT INTO kv (`key`, value, updated_at) VALUES (?, ?, ?)\n" +
		"ON CONFLICT(`key`) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	// One connection serialises writers inside the process.
	return openSQL(sqliteDialect, path, 1)
}
