// Package history persists review outcomes between runs, keyed by a file
// signature, with a debounced write-behind scheduler.
package history

import (
	"errors"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/proofcheck/internal/validate"
)

// FileInfo describes one side of a saved pair.
type FileInfo struct {
	Name string `yaml:"name"`
	Size int64  `yaml:"size"`
}

// Entry is one saved comparison outcome.
type Entry struct {
	Signature       string                          `yaml:"signature"`
	Code            string                          `yaml:"code"`
	ReferenceFile   *FileInfo                       `yaml:"reference_file,omitempty"`
	ProofFile       *FileInfo                       `yaml:"proof_file,omitempty"`
	Similarity      *float64                        `yaml:"similarity,omitempty"`
	Validation      string                          `yaml:"validation"`
	PageValidations map[int]validate.PageValidation `yaml:"page_validations,omitempty"`
	Comment         string                          `yaml:"comment,omitempty"`
	UpdatedAt       time.Time                       `yaml:"updated_at"`
}

// Store is the persistence backend for history entries.
type Store interface {
	// Upsert merges the entries into the store by signature.
	Upsert(entries []Entry) error
	// Load returns all stored entries keyed by signature.
	Load() (map[string]Entry, error)
}

// FileStore keeps history in one YAML file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type historyFile struct {
	Entries []Entry `yaml:"entries"`
}

func (s *FileStore) Load() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Entry{}, nil
		}
		return nil, err
	}

	var file historyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(file.Entries))
	for _, e := range file.Entries {
		entries[e.Signature] = e
	}
	return entries, nil
}

func (s *FileStore) Upsert(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	existing, err := s.Load()
	if err != nil {
		return err
	}
	for _, e := range entries {
		existing[e.Signature] = e
	}

	merged := make([]Entry, 0, len(existing))
	for _, e := range existing {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Signature < merged[j].Signature })

	data, err := yaml.Marshal(historyFile{Entries: merged})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
