// Package memory provides in-memory storage implementations, used by
// tests and by single-process runs without a database.
package memory

import (
	"context"
	"sync"

	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/storage"
)

// SeriesStore is an in-memory SeriesStore implementation.
type SeriesStore struct {
	mu   sync.RWMutex
	recs []*domain.PriceRecord
}

var _ storage.SeriesStore = (*SeriesStore)(nil)

// NewSeriesStore creates an empty in-memory series store.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{}
}

// Replace swaps the stored series wholesale.
func (s *SeriesStore) Replace(_ context.Context, recs []*domain.PriceRecord) error {
	copied := make([]*domain.PriceRecord, len(recs))
	for i, rec := range recs {
		c := *rec
		copied[i] = &c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = copied
	return nil
}

// GetAll returns the full series ordered by date ASC.
func (s *SeriesStore) GetAll(_ context.Context) ([]*domain.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRecords(s.recs), nil
}

// GetByKeyRange returns records with day keys in [startKey, endKey].
func (s *SeriesStore) GetByKeyRange(_ context.Context, startKey, endKey string) ([]*domain.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.PriceRecord
	for _, rec := range s.recs {
		key := datecode.ToKey(rec.Date)
		if key < startKey || key > endKey {
			continue
		}
		c := *rec
		out = append(out, &c)
	}
	return out, nil
}

func copyRecords(recs []*domain.PriceRecord) []*domain.PriceRecord {
	out := make([]*domain.PriceRecord, len(recs))
	for i, rec := range recs {
		c := *rec
		out[i] = &c
	}
	return out
}
