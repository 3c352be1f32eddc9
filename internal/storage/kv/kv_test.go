package kv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fileStore, err := Open(DriverFile, filepath.Join(dir, "kv"))
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	sqliteStore, err := Open(DriverSQLite, filepath.Join(dir, "daily.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		fileStore.Close()
		sqliteStore.Close()
	})

	return map[string]Store{
		DriverFile:   fileStore,
		DriverSQLite: sqliteStore,
	}
}

func TestStoreContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get("tasks"); err != nil || ok {
				t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
			}

			if err := s.Set("tasks", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, ok, err := s.Get("tasks")
			if err != nil || !ok {
				t.Fatalf("Get after Set = ok %v, err %v", ok, err)
			}
			if string(got) != `[{"id":"a"}]` {
				t.Errorf("Get = %q", got)
			}

			if err := s.Set("tasks", []byte(`[]`)); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, _, _ = s.Get("tasks")
			if string(got) != `[]` {
				t.Errorf("Get after overwrite = %q", got)
			}

			if err := s.Delete("tasks"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, ok, _ := s.Get("tasks"); ok {
				t.Error("expected key to be gone after Delete")
			}
			if err := s.Delete("tasks"); err != nil {
				t.Errorf("Delete of absent key: %v", err)
			}
		})
	}
}

func TestStoreRejectsInvalidKeys(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
				if err := s.Set(key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Set(%q) err = %v, want ErrInvalidKey", key, err)
				}
			}
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("tasks", []byte("payload")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, ok, err := s2.Get("tasks")
	if err != nil || !ok || string(got) != "payload" {
		t.Fatalf("Get after reopen = %q, %v, %v", got, ok, err)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("tasks", []byte("x")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "tasks.kv" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want [tasks.kv]", names)
	}
}

func TestFileStoreConcurrentWritersNeverTearValues(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	valueA := []byte(strings.Repeat("a", 64*1024))
	valueB := []byte(strings.Repeat("b", 16*1024))

	var wg sync.WaitGroup
	for _, w := range []struct {
		store *FileStore
		value []byte
	}{{a, valueA}, {b, valueB}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if err := w.store.Set("reminders", w.value); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, ok, err := a.Get("reminders")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if string(got) != string(valueA) && string(got) != string(valueB) {
		t.Fatalf("value torn: %d bytes", len(got))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only reminders.kv", len(entries))
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestMySQLDialectStatements(t *testing.T) {
	if mysqlDialect.driver != DriverMySQL {
		t.Errorf("driver = %q", mysqlDialect.driver)
	}
	if !strings.Contains(mysqlDialect.upsert, "ON DUPLICATE KEY UPDATE") {
		t.Errorf("mysql upsert = %q", mysqlDialect.upsert)
	}
	if !strings.Contains(sqliteDialect.upsert, "ON CONFLICT(`key`)") {
		t.Errorf("sqlite upsert = %q", sqliteDialect.upsert)
	}
	for _, d := range []dialect{sqliteDialect, mysqlDialect} {
		if !strings.HasPrefix(d.setup[len(d.setup)-1], "CREATE TABLE IF NOT EXISTS kv") {
			t.Errorf("%s: schema must be the last setup statement", d.driver)
		}
	}
}

func TestOpenMySQLUnreachable(t *testing.T) {
	// Port 1 on loopback refuses connections; the ping fails fast.
	_, err := Open(DriverMySQL, "daily:daily@tcp(127.0.0.1:1)/daily?timeout=1s")
	if err == nil {
		t.Fatal("expected connection error")
	}
}
