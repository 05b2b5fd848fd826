// Package store implements the local key/value storage where the dashboard keeps its
// session token, so that other commands (and extensions) can authenticate their requests.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// TokenKey is the key the session token is stored under.
const TokenKey = "token"

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("key not found")

// File is a key/value store persisted as a single JSON object.
//
// Every call reads or rewrites the whole file; the store holds a handful of keys.
type File struct {
	path string
	mu   sync.Mutex
}

// Open returns the store persisted at path. The file is created on the first Set.
func Open(path string) *File { return &File{path: path} }

// DefaultPath returns the store location in the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "navdash", "storage.json")
}

// Get returns the value stored under key.
func (s *File) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%q in %s: %w", key, s.path, ErrNotFound)
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (s *File) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return err
	}
	m[key] = value
	return s.write(m)
}

// read loads the whole store, an absent file being an empty store.
func (s *File) read() (map[string]string, error) {
	m := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read store: %w", err)
	}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cannot decode store %s: %w", s.path, err)
	}
	return m, nil
}

func (s *File) write(m map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("cannot create store directory: %w", err)
	}
	// write then rename, so a reader never sees a partial file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("cannot write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("cannot replace store: %w", err)
	}
	return nil
}

// Memory is an in-memory store, handy for tests and one-shot sessions.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

// Get returns the value stored under key.
func (s *Memory) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	return v, nil
}

// Set stores value under key.
func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[string]string)
	}
	s.m[key] = value
	return nil
}

// Len returns the number of stored keys.
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
