// Package pipeline composes window selection, valuation, strategy
// simulation, statistics, and axis scaling into one exploration pass.
// Explore is a pure function of its inputs: any change to the window
// or parameters recomputes every derived structure wholesale.
package pipeline

import (
	"time"

	"metal-ratio-lab/internal/chartaxis"
	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/metrics"
	"metal-ratio-lab/internal/observability"
	"metal-ratio-lab/internal/simulation"
	"metal-ratio-lab/internal/valuation"
	"metal-ratio-lab/internal/window"
)

// ExploreRequest selects a window and strategy over an ingested
// series. Empty window keys default to the full series range. The
// visibility toggles affect only which series feed the axes, never
// the computation itself.
type ExploreRequest struct {
	StartKey string
	EndKey   string
	Params   domain.SimulationParams

	ShowGold     bool
	ShowSilver   bool
	ShowStrategy bool
	ShowRatio    bool
}

// ExploreResult carries every derived structure for one request.
type ExploreResult struct {
	StartKey string // adjusted window start
	EndKey   string // adjusted window end

	Records   []*domain.SimulatedRecord
	Summary   *domain.Summary
	ValueAxis domain.AxisSpec
	RatioAxis domain.AxisSpec
}

// Explore runs the full derivation chain for one request. An empty or
// out-of-range window produces empty records and a start-amount
// summary rather than an error.
func Explore(series domain.Series, req ExploreRequest) (*ExploreResult, error) {
	params := req.Params.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()

	windowed, startKey, endKey := window.Select(series, req.StartKey, req.EndKey)
	valued := valuation.Value(windowed, params.Amount)
	sim := simulation.Simulate(valued, params)
	summary := metrics.Compute(sim, params.Amount, keyTime(startKey), keyTime(endKey))

	valueAxis := chartaxis.NiceDomain(
		chartaxis.ValueAxisValues(sim, req.ShowGold, req.ShowSilver, req.ShowStrategy),
		chartaxis.Options{ClampMinToZero: true},
	)
	var ratioValues []float64
	if req.ShowRatio {
		ratioValues = chartaxis.RatioAxisValues(sim)
	}
	ratioAxis := chartaxis.NiceDomain(ratioValues, chartaxis.Options{})

	observability.RecordSimulation(time.Since(started).Seconds(), summary.SwitchCount)

	return &ExploreResult{
		StartKey:  startKey,
		EndKey:    endKey,
		Records:   sim,
		Summary:   summary,
		ValueAxis: valueAxis,
		RatioAxis: ratioAxis,
	}, nil
}

func keyTime(key string) time.Time {
	date, ok := datecode.FromKey(key)
	if !ok {
		return time.Time{}
	}
	return date
}
