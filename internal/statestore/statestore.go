// Package statestore persists the small pieces of client-side state that
// must survive a UI restart: the one-shot pending navigation target
// written before a forced reload, and a snapshot of the last-fetched
// backend settings for fast optimistic reads before the authoritative
// fetch completes.
package statestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsSnapshot caches the last configuration fetched from the
// backend. Toggles holds boolean settings (e.g. whether a global feature
// is enabled) keyed by setting name.
type SettingsSnapshot struct {
	FetchedAt time.Time         `yaml:"fetched_at"`
	Toggles   map[string]bool   `yaml:"toggles,omitempty"`
	Values    map[string]string `yaml:"values,omitempty"`
}

type fileState struct {
	Version        int               `yaml:"version"`
	PendingSection string            `yaml:"pending_section,omitempty"`
	Snapshot       *SettingsSnapshot `yaml:"settings_snapshot,omitempty"`
}

// Store reads and writes the state file. Writes are atomic (temp file +
// rename) to prevent corruption on crash.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open creates a store backed by the given file path. The file is created
// lazily on first write.
func Open(path string) *Store {
	return &Store{path: path}
}

// SavePendingSection records the navigation target to resume after a
// forced UI restart.
func (s *Store) SavePendingSection(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.PendingSection = id
	return s.write(state)
}

// TakePendingSection returns the stored target and clears it so it is
// consumed exactly once.
func (s *Store) TakePendingSection() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil || state.PendingSection == "" {
		return "", false
	}
	id := state.PendingSection
	state.PendingSection = ""
	if err := s.write(state); err != nil {
		// The target is still returned; worst case the next start
		// resumes the same section again.
		return id, true
	}
	return id, true
}

// SaveSnapshot stores the last-fetched backend settings.
func (s *Store) SaveSnapshot(snap *SettingsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.Snapshot = snap
	return s.write(state)
}

// Snapshot returns the cached settings, if any have been stored.
func (s *Store) Snapshot() (*SettingsSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil || state.Snapshot == nil {
		return nil, false
	}
	return state.Snapshot, true
}

// Toggle is an optimistic read of one boolean setting from the snapshot.
// The second result reports whether the snapshot held the setting at all.
func (s *Store) Toggle(name string) (bool, bool) {
	snap, ok := s.Snapshot()
	if !ok || snap.Toggles == nil {
		return false, false
	}
	v, ok := snap.Toggles[name]
	return v, ok
}

func (s *Store) load() (*fileState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileState{Version: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state fileState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if state.Version == 0 {
		state.Version = 1
	}
	return &state, nil
}

func (s *Store) write(state *fileState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save state file: %w", err)
	}
	return nil
}
