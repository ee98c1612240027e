// Package history keeps saved trace reports on disk, one JSON file per
// report, keyed by a random UUID.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

// ErrNotFound is returned by Load for unknown ids.
var ErrNotFound = errors.New("history: report not found")

// Kind tells which interpreter produced a report.
type Kind string

const (
	KindTrace  Kind = "trace"
	KindScript Kind = "script"
)

// Report is a saved run.
type Report struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Kind      Kind          `json:"kind"`
	Dialect   string        `json:"dialect,omitempty"`
	Locale    string        `json:"locale,omitempty"`
	Source    string        `json:"source"`
	Entries   []trace.Entry `json:"entries"`
	Outputs   []string      `json:"outputs"`
	Truncated bool          `json:"truncated"`
}

// Summary is the listing view of a report.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Kind      Kind      `json:"kind"`
	Dialect   string    `json:"dialect,omitempty"`
	Steps     int       `json:"steps"`
}

// Store persists reports under a directory.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir. The directory is created on
// first save.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Dir returns the directory reports are kept in.
func (s *Store) Dir() string {
	return s.baseDir
}

// Save writes r, assigning an id and creation time when missing, and
// returns the id.
func (s *Store) Save(r *Report) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(s.path(r.ID), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return r.ID, nil
}

// Load reads the report with the given id.
func (s *Store) Load(id string) (*Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid report id %q: %w", id, err)
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}

// List returns summaries of every saved report, newest first. Unreadable
// files are skipped.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	out := []Summary{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		r, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		out = append(out, Summary{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Kind:      r.Kind,
			Dialect:   r.Dialect,
			Steps:     len(r.Entries),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a report.
func (s *Store) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid report id %q: %w", id, err)
	}
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}
