// Package draft persists in-progress commit messages per repository, so
// a closed session resumes with the message it was composing.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store reads and writes commit drafts in a single JSON file keyed by
// repository root.
type Store struct {
	mu   sync.Mutex
	path string
}

// DefaultPath resolves the drafts file location under the user config
// directory, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home dir: %w", err)
	}

	xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if xdg != "" {
		return filepath.Join(xdg, "scmview", "drafts.json"), nil
	}
	return filepath.Join(home, ".config", "scmview", "drafts.json"), nil
}

// NewStore returns a store over the default drafts file.
func NewStore() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewStoreAt(path), nil
}

// NewStoreAt returns a store over an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load returns the draft for repoRoot, or "" when none is saved.
func (s *Store) Load(repoRoot string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.read()
	if err != nil {
		return "", err
	}
	return drafts[repoRoot], nil
}

// Save stores message as the draft for repoRoot. An empty message
// removes the entry.
func (s *Store) Save(repoRoot, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.read()
	if err != nil {
		return err
	}
	if message == "" {
		delete(drafts, repoRoot)
	} else {
		drafts[repoRoot] = message
	}
	return s.write(drafts)
}

// Clear removes the draft for repoRoot. Called after a successful
// commit.
func (s *Store) Clear(repoRoot string) error {
	return s.Save(repoRoot, "")
}

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read drafts file %s: %w", s.path, err)
	}

	var drafts map[string]string
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("parse drafts file %s: %w", s.path, err)
	}
	if drafts == nil {
		drafts = map[string]string{}
	}
	return drafts, nil
}

func (s *Store) write(drafts map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create drafts dir: %w", err)
	}

	data, err := json.MarshalIndent(drafts, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize drafts: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write drafts file %s: %w", s.path, err)
	}
	return nil
}
