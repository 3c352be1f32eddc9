package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one file per key in a directory. Writes go through a
// temp file and rename so a crash never leaves a half-written value.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create kv dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+".kv")
}

// Get reads the value stored under key.
func (fs *FileStore) Get(key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Set atomically writes value under key.
func (fs *FileStore) Set(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	// Each write gets its own temp file: another process may be writing
	// the same key.
	f, err := os.CreateTemp(fs.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s tmp: %w", key, err)
	}
	tmp := f.Name()
	if _, err := f.Write(value); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s tmp: %w", key, err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("chmod %s tmp: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s tmp: %w", key, err)
	}
	if err := os.Rename(tmp, fs.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (fs *FileStore) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (fs *FileStore) Close() error { return nil }
