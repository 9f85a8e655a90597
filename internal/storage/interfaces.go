package storage

import (
	"context"

	"metal-ratio-lab/internal/domain"
)

// SeriesStore holds the ingested price series. The series is owned by
// the ingestion pipeline and swapped wholesale on every re-ingestion;
// there are no per-row updates.
type SeriesStore interface {
	// Replace atomically swaps the stored series for recs.
	Replace(ctx context.Context, recs []*domain.PriceRecord) error

	// GetAll retrieves the full series ordered by date ASC.
	GetAll(ctx context.Context) ([]*domain.PriceRecord, error)

	// GetByKeyRange retrieves records with day keys in [startKey, endKey]
	// (inclusive), ordered by date ASC.
	GetByKeyRange(ctx context.Context, startKey, endKey string) ([]*domain.PriceRecord, error)
}

// SimulationRunStore provides access to simulation_runs storage.
type SimulationRunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.SimulationRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.SimulationRun, error)

	// GetAll retrieves all runs ordered by created_at ASC.
	GetAll(ctx context.Context) ([]*domain.SimulationRun, error)
}

// TrajectoryStore provides access to run_trajectories storage.
type TrajectoryStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate
	// (run_id, date_key).
	InsertBulk(ctx context.Context, points []*domain.TrajectoryPoint) error

	// GetByRunID retrieves all points for a run, ordered by date key ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.TrajectoryPoint, error)
}
