// Package reporting renders exploration results as Markdown, CSV, and
// PNG charts.
package reporting

import (
	"time"

	"metal-ratio-lab/internal/domain"
)

// Report is one rendered exploration: the window, the parameters it
// was run with, the summary, and the per-day trajectory.
type Report struct {
	GeneratedAt time.Time

	StartKey string
	EndKey   string
	Params   domain.SimulationParams

	Summary    *domain.Summary
	Trajectory []TrajectoryRow

	// Previously persisted runs, most recent last.
	PastRuns []PastRunRow
}

// TrajectoryRow is one day of the report's trajectory table.
type TrajectoryRow struct {
	DateKey       string
	Gold          float64
	Silver        float64
	GSR           float64
	GoldValue     float64
	SilverValue   float64
	StrategyValue float64
	HeldMetal     domain.Metal
	SwitchCount   int
}

// PastRunRow summarizes one stored simulation run.
type PastRunRow struct {
	RunID             string
	StartKey          string
	EndKey            string
	StrategyReturnPct float64
	SwitchCount       int
	FinalMetal        domain.Metal
	CreatedAt         time.Time
}
