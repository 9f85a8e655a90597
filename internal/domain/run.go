package domain

import "time"

// SimulationRun is one persisted simulation: the parameters it was run
// with and the summary it produced. RunID is a deterministic hash of
// the window and parameters, so re-running identical inputs collides
// instead of duplicating. Corresponds to the simulation_runs table.
type SimulationRun struct {
	RunID    string
	StartKey string // adjusted window start, "YYYY-MM-DD"
	EndKey   string // adjusted window end, "YYYY-MM-DD"

	Amount        float64
	GoldToSilver  float64
	SilverToGold  float64
	StartMetal    Metal
	SwitchCostPct float64

	EndGoldValue      float64
	EndSilverValue    float64
	EndStrategyValue  float64
	StrategyReturnPct float64
	BeatsGoldPct      float64
	BeatsSilverPct    float64
	SwitchCount       int
	FinalMetal        Metal

	CreatedAt time.Time
}

// TrajectoryPoint is one day of a persisted simulation trajectory.
// Corresponds to the run_trajectories table in ClickHouse.
type TrajectoryPoint struct {
	RunID         string
	DateKey       string // "YYYY-MM-DD"
	Gold          float64
	Silver        float64
	GSR           float64
	GoldValue     float64
	SilverValue   float64
	StrategyValue float64
	HeldMetal     Metal
	SwitchCount   int
}
