package memory

import (
	"context"
	"sort"
	"sync"

	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/storage"
)

// SimulationRunStore is an in-memory SimulationRunStore implementation.
type SimulationRunStore struct {
	mu   sync.RWMutex
	runs map[string]*domain.SimulationRun
}

var _ storage.SimulationRunStore = (*SimulationRunStore)(nil)

// NewSimulationRunStore creates an empty in-memory run store.
func NewSimulationRunStore() *SimulationRunStore {
	return &SimulationRunStore{runs: make(map[string]*domain.SimulationRun)}
}

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *SimulationRunStore) Insert(_ context.Context, r *domain.SimulationRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}
	c := *r
	s.runs[r.RunID] = &c
	return nil
}

// GetByID retrieves a run by its ID.
func (s *SimulationRunStore) GetByID(_ context.Context, runID string) (*domain.SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *r
	return &c, nil
}

// GetAll retrieves all runs ordered by created_at ASC.
func (s *SimulationRunStore) GetAll(_ context.Context) ([]*domain.SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.SimulationRun, 0, len(s.runs))
	for _, r := range s.runs {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
