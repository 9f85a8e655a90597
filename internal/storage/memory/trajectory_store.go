package memory

import (
	"context"
	"sort"
	"sync"

	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/storage"
)

type trajectoryKey struct {
	runID   string
	dateKey string
}

// TrajectoryStore is an in-memory TrajectoryStore implementation.
type TrajectoryStore struct {
	mu     sync.RWMutex
	points map[trajectoryKey]*domain.TrajectoryPoint
}

var _ storage.TrajectoryStore = (*TrajectoryStore)(nil)

// NewTrajectoryStore creates an empty in-memory trajectory store.
func NewTrajectoryStore() *TrajectoryStore {
	return &TrajectoryStore{points: make(map[trajectoryKey]*domain.TrajectoryPoint)}
}

// InsertBulk adds multiple points. The whole batch fails on a
// duplicate (run_id, date_key); nothing is written.
func (s *TrajectoryStore) InsertBulk(_ context.Context, points []*domain.TrajectoryPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if p == nil || p.RunID == "" || p.DateKey == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.points[trajectoryKey{p.RunID, p.DateKey}]; exists {
			return storage.ErrDuplicateKey
		}
	}
	seen := make(map[trajectoryKey]struct{}, len(points))
	for _, p := range points {
		key := trajectoryKey{p.RunID, p.DateKey}
		if _, dup := seen[key]; dup {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	for _, p := range points {
		c := *p
		s.points[trajectoryKey{p.RunID, p.DateKey}] = &c
	}
	return nil
}

// GetByRunID retrieves all points for a run, ordered by date key ASC.
func (s *TrajectoryStore) GetByRunID(_ context.Context, runID string) ([]*domain.TrajectoryPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TrajectoryPoint
	for key, p := range s.points {
		if key.runID != runID {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateKey < out[j].DateKey
	})
	return out, nil
}
