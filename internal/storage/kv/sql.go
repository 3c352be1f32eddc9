package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// dialect holds the statements that differ between SQL backends.
type dialect struct {
	driver string
	setup  []string // run once after opening, schema last
	upsert string   // args: key, value, updated_at
}

// SQLStore keeps keys in a single "kv" table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func openSQL(d dialect, dsn string, maxConns int) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	db.SetMaxOpenConns(maxConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}
	for _, stmt := range d.setup {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s setup: %w", d.driver, err)
		}
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// Get reads the value stored under key.
func (s *SQLStore) Get(key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE `+"`key`"+` = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *SQLStore) Set(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.db.Exec(s.dialect.upsert, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLStore) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM kv WHERE `+"`key`"+` = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
