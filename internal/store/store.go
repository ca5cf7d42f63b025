// Package store keeps finished batch runs in process memory. Runs live for
// the process lifetime; there is no eviction and no persistence.
package store

import (
	"errors"
	"slices"
	"sync"

	"github.com/feedlift/feedlift/internal/models"
)

// ErrDuplicateBatch is returned when a batch id is stored twice. Concurrent
// submission under the same caller-supplied id is rejected, never silently
// overwritten.
var ErrDuplicateBatch = errors.New("batch id already exists")

// Store is the batch-run repository owned by the request layer.
type Store interface {
	// Put stores a completed run under its batch id. A run is write-once:
	// storing the same id again returns ErrDuplicateBatch.
	Put(id string, run *models.BatchRun) error
	// Get returns the run for a batch id.
	Get(id string) (*models.BatchRun, bool)
	// List returns all runs, most recently submitted first.
	List() []*models.BatchRun
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*models.BatchRun
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]*models.BatchRun),
	}
}

// Put stores a run. Write-once per id.
func (s *MemoryStore) Put(id string, run *models.BatchRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[id]; exists {
		return ErrDuplicateBatch
	}
	s.runs[id] = run
	return nil
}

// Get returns the run for a batch id.
func (s *MemoryStore) Get(id string) (*models.BatchRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok
}

// List returns all runs, most recently submitted first.
func (s *MemoryStore) List() []*models.BatchRun {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*models.BatchRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}

	slices.SortFunc(runs, func(a, b *models.BatchRun) int {
		return b.SubmittedAt.Compare(a.SubmittedAt)
	})

	return runs
}
