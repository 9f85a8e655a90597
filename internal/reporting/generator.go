package reporting

import (
	"context"
	"fmt"
	"time"

	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/pipeline"
	"metal-ratio-lab/internal/storage"
)

// Generator produces reports from the stored series and run history.
type Generator struct {
	seriesStore storage.SeriesStore
	runStore    storage.SimulationRunStore // nil omits past runs
	now         func() time.Time           // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(seriesStore storage.SeriesStore, runStore storage.SimulationRunStore) *Generator {
	return &Generator{
		seriesStore: seriesStore,
		runStore:    runStore,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads the stored series, explores the requested window, and
// assembles the report.
func (g *Generator) Generate(ctx context.Context, req pipeline.ExploreRequest) (*Report, error) {
	recs, err := g.seriesStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}

	res, err := pipeline.Explore(recs, req)
	if err != nil {
		return nil, fmt.Errorf("explore window: %w", err)
	}

	report := &Report{
		GeneratedAt: g.now(),
		StartKey:    res.StartKey,
		EndKey:      res.EndKey,
		Params:      req.Params.WithDefaults(),
		Summary:     res.Summary,
		Trajectory:  make([]TrajectoryRow, 0, len(res.Records)),
	}

	for _, rec := range res.Records {
		report.Trajectory = append(report.Trajectory, TrajectoryRow{
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

	if g.runStore != nil {
		runs, err := g.runStore.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load past runs: %w", err)
		}
		for _, run := range runs {
			report.PastRuns = append(report.PastRuns, PastRunRow{
				RunID:             run.RunID,
				StartKey:          run.StartKey,
				EndKey:            run.EndKey,
				StrategyReturnPct: run.StrategyReturnPct,
				SwitchCount:       run.SwitchCount,
				FinalMetal:        run.FinalMetal,
				CreatedAt:         run.CreatedAt,
			})
		}
	}

	return report, nil
}
