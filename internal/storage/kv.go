// Package storage persists the workout collection and owns the live copy of
// it. The collection is stored as one JSON document under a single key of a
// durable key-value store; Store serializes every change to that key on a
// background writer.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"liftlog/internal/fsutil"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// KV is a durable string key-value store.
type KV interface {
	// Get returns the value for key. ok is false when the key was never set.
	Get(key string) (value string, ok bool, err error)
	// Set replaces the value for key.
	Set(key, value string) error
}

// =============================================================================
// File-backed store
// =============================================================================

// FileKV keeps each key in <dir>/<key>.json. Writes are atomic and the
// previous value is kept as <key>.json.bak.
type FileKV struct {
	dir string
}

// NewFileKV creates the directory if needed and returns a store rooted there.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileKV) Dir() string {
	return s.dir
}

// Path returns the file backing key.
func (s *FileKV) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get implements KV.
func (s *FileKV) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements KV.
func (s *FileKV) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := s.Path(key)
	fsutil.BestEffortBackup(path, dataFilePerm)
	if err := fsutil.WriteFileAtomic(path, []byte(value), dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func validateKey(key string) error {
	if key == "" || key != filepath.Base(key) || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid key: %q", key)
	}
	return nil
}

// =============================================================================
// In-memory store
// =============================================================================

// MemoryKV is a KV held in memory. SetErr makes every Set fail, which tests
// use to exercise write failures.
type MemoryKV struct {
	mu     sync.Mutex
	data   map[string]string
	writes int
	setErr error
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get implements KV.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements KV.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.writes++
	return nil
}

// SetErr makes subsequent Set calls return err (nil clears it).
func (m *MemoryKV) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// Writes returns the number of successful Set calls.
func (m *MemoryKV) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
