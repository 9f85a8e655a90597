package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/storage"
)

// SimulationRunStore implements storage.SimulationRunStore using
// PostgreSQL. Runs are append-only.
type SimulationRunStore struct {
	pool *Pool
}

// NewSimulationRunStore creates a new SimulationRunStore.
func NewSimulationRunStore(pool *Pool) *SimulationRunStore {
	return &SimulationRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SimulationRunStore = (*SimulationRunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *SimulationRunStore) Insert(ctx context.Context, r *domain.SimulationRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO simulation_runs (
			run_id, start_key, end_key,
			amount, gold_to_silver, silver_to_gold, start_metal, switch_cost_pct,
			end_gold_value, end_silver_value, end_strategy_value,
			strategy_return_pct, beats_gold_pct, beats_silver_pct,
			switch_count, final_metal, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID,
		r.StartKey,
		r.EndKey,
		r.Amount,
		r.GoldToSilver,
		r.SilverToGold,
		string(r.StartMetal),
		r.SwitchCostPct,
		r.EndGoldValue,
		r.EndSilverValue,
		r.EndStrategyValue,
		r.StrategyReturnPct,
		r.BeatsGoldPct,
		r.BeatsSilverPct,
		r.SwitchCount,
		string(r.FinalMetal),
		r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert simulation run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *SimulationRunStore) GetByID(ctx context.Context, runID string) (*domain.SimulationRun, error) {
	query := selectRunColumns + ` WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	run, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get simulation run by id: %w", err)
	}
	return run, nil
}

// GetAll retrieves all runs ordered by created_at ASC.
func (s *SimulationRunStore) GetAll(ctx context.Context) ([]*domain.SimulationRun, error) {
	query := selectRunColumns + ` ORDER BY created_at ASC, run_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get simulation runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.SimulationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan simulation run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulation run rows: %w", err)
	}
	return runs, nil
}

const selectRunColumns = `
	SELECT run_id, start_key, end_key,
		amount, gold_to_silver, silver_to_gold, start_metal, switch_cost_pct,
		end_gold_value, end_silver_value, end_strategy_value,
		strategy_return_pct, beats_gold_pct, beats_silver_pct,
		switch_count, final_metal, created_at
	FROM simulation_runs
`

func scanRun(row pgx.Row) (*domain.SimulationRun, error) {
	var (
		run                    domain.SimulationRun
		startMetal, finalMetal string
	)
	err := row.Scan(
		&run.RunID,
		&run.StartKey,
		&run.EndKey,
		&run.Amount,
		&run.GoldToSilver,
		&run.SilverToGold,
		&startMetal,
		&run.SwitchCostPct,
		&run.EndGoldValue,
		&run.EndSilverValue,
		&run.EndStrategyValue,
		&run.StrategyReturnPct,
		&run.BeatsGoldPct,
		&run.BeatsSilverPct,
		&run.SwitchCount,
		&finalMetal,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.StartMetal = domain.Metal(startMetal)
	run.FinalMetal = domain.Metal(finalMetal)
	return &run, nil
}
