package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Persisted keys
const (
	KeyUser     = "user"
	KeyToken    = "token"
	KeyUsername = "username"
)

// Store is a persisted string key-value store.
// Update runs fn on a copy of the current values and persists the result
// atomically; concurrent Updates are serialized.
type Store interface {
	Load() (map[string]string, error)
	Update(fn func(values map[string]string) error) error
}

// FileStore keeps the values as a JSON object in a single file
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session path is required")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load returns all persisted values; a missing file yields an empty map
func (s *FileStore) Load() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Update performs a locked read-modify-write cycle
func (s *FileStore) Update(fn func(values map[string]string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	lock := flock.New(s.lockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock session file: %w", err)
	}
	defer lock.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(values); err != nil {
		return err
	}
	return s.write(values)
}

// lockPath is the file other processes lock on before touching the session
func (s *FileStore) lockPath() string {
	return s.path + ".lock"
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set session file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Load returns a copy of the stored values
func (s *MemoryStore) Load() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := maps.Clone(s.values)
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

// Update applies fn to a copy and keeps it only when fn succeeds
func (s *MemoryStore) Update(fn func(values map[string]string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := maps.Clone(s.values)
	if values == nil {
		values = make(map[string]string)
	}
	if err := fn(values); err != nil {
		return err
	}
	s.values = values
	return nil
}
