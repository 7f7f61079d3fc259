// Package state is the on-disk JSON document store shared by skills and
// the scheduled tick process. Writers replace documents atomically
// (temp file, fsync, rename); readers treat a missing or half-written
// document as absent and fall back to the zero value.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load decodes the named document into v. Returns false when the document
// is missing or unreadable as JSON; v is left untouched in that case.
func (s *Store) Load(name string, v any) bool {
	raw, err := os.ReadFile(s.path(name))
	if err != nil || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false
	}
	return true
}

// Save replaces the named document atomically.
func (s *Store) Save(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o777); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state %s: %w", name, err)
	}

	p := s.path(name)
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write state %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync state %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("replace state %s: %w", name, err)
	}
	return nil
}

// Delete removes the named document. Missing is not an error.
func (s *Store) Delete(name string) {
	os.Remove(s.path(name))
}
