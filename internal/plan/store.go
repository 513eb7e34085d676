package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// WorkDirName is the per-repository working directory for plan state.
	WorkDirName = ".merge_work"
	planFile    = "merge_plan.json"
)

// ErrNoPlan is returned when an operation requires a persisted plan and
// none exists. Callers surface this as "run 'mpilot plan' first".
var ErrNoPlan = errors.New("merge plan not found")

// Store reads and writes the plan document under <repo>/.merge_work.
// Concurrent writers are not supported; callers treat load-modify-save
// as a single critical section.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the repository path.
func NewStore(repoPath string) *Store {
	return &Store{dir: filepath.Join(repoPath, WorkDirName)}
}

// Path returns the plan document's location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, planFile)
}

// Dir returns the working directory the store writes under.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads the persisted plan. Returns ErrNoPlan if the document does
// not exist.
func (s *Store) Load() (*Plan, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoPlan
		}
		return nil, fmt.Errorf("read plan document: %w", err)
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan document %s: %w", s.Path(), err)
	}
	return &p, nil
}

// Save writes the plan atomically. Serialization is deterministic: fixed
// struct field order and sorted map keys, so save/load/save round-trips
// byte for byte.
func (s *Store) Save(p *Plan) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create work dir %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	data = append(data, '\n')

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write plan document: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replace plan document: %w", err)
	}
	return nil
}
