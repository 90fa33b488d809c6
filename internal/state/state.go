// Package state persists local preferences that live outside the note
// collection, such as the theme.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Theme names as stored on disk.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// State holds persistent user preferences.
type State struct {
	Theme string `json:"theme"` // "light" or "dark"
}

// Store reads and writes state.json. Every setter writes through to disk.
type Store struct {
	mu      sync.RWMutex
	path    string
	current State
}

// Init loads state from dir/state.json, falling back to defaults if the
// file does not exist yet.
func Init(dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, "state.json")}
	return s, s.Load()
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads state from disk.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = State{Theme: ThemeLight}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.current); err != nil {
		s.current = State{Theme: ThemeLight}
		return err
	}
	if s.current.Theme != ThemeDark {
		s.current.Theme = ThemeLight
	}
	return nil
}

func (s *Store) saveLocked() error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Dark reports whether the dark theme is selected.
func (s *Store) Dark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Theme == ThemeDark
}

// SetDark selects the dark or light theme and saves immediately.
func (s *Store) SetDark(dark bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dark {
		s.current.Theme = ThemeDark
	} else {
		s.current.Theme = ThemeLight
	}
	return s.saveLocked()
}
