package simulation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/observability"
	"metal-ratio-lab/internal/runid"
	"metal-ratio-lab/internal/storage"
)

// Runner persists completed simulations: one SimulationRun row keyed
// by the deterministic run ID, plus the per-day trajectory. Both
// stores are optional; a nil store disables that side.
type Runner struct {
	runs   storage.SimulationRunStore
	traj   storage.TrajectoryStore
	logger *log.Logger
	now    func() time.Time
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	RunStore        storage.SimulationRunStore
	TrajectoryStore storage.TrajectoryStore
	Logger          *log.Logger
}

// NewRunner creates a simulation persistence runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[simulation] ", log.LstdFlags)
	}
	return &Runner{
		runs:   opts.RunStore,
		traj:   opts.TrajectoryStore,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock sets a custom clock for CreatedAt stamping.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Persist stores one completed simulation. Identical inputs hash to
// the same run ID; a duplicate run is treated as already persisted and
// its trajectory is not rewritten.
func (r *Runner) Persist(ctx context.Context, startKey, endKey string, params domain.SimulationParams,
	records []*domain.SimulatedRecord, summary *domain.Summary) (string, error) {

	params = params.WithDefaults()
	id := runid.Compute(startKey, endKey, params)

	finalMetal := summary.FinalMetal
	if finalMetal == "" {
		// Empty window: the position never left the starting metal.
		finalMetal = params.StartMetal
	}

	run := &domain.SimulationRun{
		RunID:    id,
		StartKey: startKey,
		EndKey:   endKey,

		Amount:        params.Amount,
		GoldToSilver:  params.GoldToSilver,
		SilverToGold:  params.SilverToGold,
		StartMetal:    params.StartMetal,
		SwitchCostPct: params.SwitchCostPct,

		EndGoldValue:      summary.EndGoldValue,
		EndSilverValue:    summary.EndSilverValue,
		EndStrategyValue:  summary.EndStrategyValue,
		StrategyReturnPct: summary.StrategyReturnPct,
		BeatsGoldPct:      summary.BeatsGoldPct,
		BeatsSilverPct:    summary.BeatsSilverPct,
		SwitchCount:       summary.SwitchCount,
		FinalMetal:        finalMetal,

		CreatedAt: r.now(),
	}

	if r.runs != nil {
		if err := r.runs.Insert(ctx, run); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				r.logger.Printf("run %s already persisted, skipping", shortID(id))
				return id, nil
			}
			observability.RecordDBError("simulation_runs")
			return "", fmt.Errorf("persist run: %w", err)
		}
	}

	if r.traj != nil && len(records) > 0 {
		points := make([]*domain.TrajectoryPoint, 0, len(records))
		for _, rec := range records {
			points = append(points, &domain.TrajectoryPoint{
				RunID:         id,
				DateKey:       datecode.ToKey(rec.Date),
				Gold:          rec.Gold,
				Silver:        rec.Silver,
				GSR:           rec.GSR,
				GoldValue:     rec.GoldValue,
				SilverValue:   rec.SilverValue,
				StrategyValue: rec.StrategyValue,
				HeldMetal:     rec.HeldMetal,
				SwitchCount:   rec.SwitchCount,
			})
		}
		if err := r.traj.InsertBulk(ctx, points); err != nil {
			observability.RecordDBError("run_trajectories")
			return "", fmt.Errorf("persist trajectory: %w", err)
		}
	}

	r.logger.Printf("persisted run %s: %s .. %s, %d records, %d switches",
		shortID(id), startKey, endKey, len(records), summary.SwitchCount)
	return id, nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
