package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/simulation"
	"metal-ratio-lab/internal/valuation"
)

func day(d int) time.Time {
	return time.Date(2020, 1, d, 0, 0, 0, 0, time.Local)
}

func simulatedWindow(t *testing.T, amount float64, params domain.SimulationParams, ratios ...float64) []*domain.SimulatedRecord {
	t.Helper()
	series := make(domain.Series, 0, len(ratios))
	for i, gsr := range ratios {
		series = append(series, domain.NewPriceRecord(day(1).AddDate(0, 0, i), gsr*20, 20))
	}
	return simulation.Simulate(valuation.Value(series, amount), params)
}

func TestCompute(t *testing.T) {
	params := domain.SimulationParams{
		Amount:       10000,
		GoldToSilver: 85,
		SilverToGold: 65,
		StartMetal:   domain.MetalGold,
	}
	sim := simulatedWindow(t, 10000, params, 80, 84, 86, 83)

	s := Compute(sim, 10000, day(1), day(4))
	require.NotNil(t, s)

	last := sim[len(sim)-1]
	assert.Equal(t, last.GoldValue, s.EndGoldValue)
	assert.Equal(t, last.StrategyValue, s.EndStrategyValue)
	assert.Equal(t, 1, s.SwitchCount)
	assert.Equal(t, domain.MetalSilver, s.FinalMetal)

	assert.InDelta(t, s.EndGoldValue-10000, s.GoldChange, 1e-9)
	assert.InDelta(t, (s.EndStrategyValue/10000-1)*100, s.StrategyReturnPct, 1e-9)
	assert.InDelta(t, s.StrategyReturnPct-s.GoldReturnPct, s.VsGoldPct, 1e-9)
	assert.Equal(t, "0m", s.Duration)
}

func TestCompute_EmptyWindow(t *testing.T) {
	s := Compute(nil, 10000, time.Time{}, time.Time{})

	assert.Equal(t, 10000.0, s.EndGoldValue)
	assert.Equal(t, 10000.0, s.EndSilverValue)
	assert.Equal(t, 10000.0, s.EndStrategyValue)
	assert.Zero(t, s.GoldChange)
	assert.Zero(t, s.StrategyReturnPct)
	assert.Zero(t, s.BeatsGoldPct)
	assert.Zero(t, s.SwitchCount)
	assert.Equal(t, "0m", s.Duration)
}

func TestCompute_ZeroAmount(t *testing.T) {
	params := domain.SimulationParams{
		Amount:       0,
		GoldToSilver: math.NaN(),
		SilverToGold: math.NaN(),
		StartMetal:   domain.MetalGold,
	}
	sim := simulatedWindow(t, 0, params, 80, 84)

	s := Compute(sim, 0, day(1), day(2))
	assert.Zero(t, s.GoldReturnPct, "zero amount must not divide")
	assert.Zero(t, s.StrategyReturnPct)
}

func TestCompute_WinRateTiesDoNotCount(t *testing.T) {
	// Holding gold with no switches: the strategy tracks the gold
	// benchmark exactly, so the win rate against gold is 0, never 100.
	params := domain.SimulationParams{
		Amount:       10000,
		GoldToSilver: math.NaN(),
		SilverToGold: math.NaN(),
		StartMetal:   domain.MetalGold,
	}
	sim := simulatedWindow(t, 10000, params, 80, 84, 86)

	s := Compute(sim, 10000, day(1), day(3))
	assert.Zero(t, s.BeatsGoldPct)
	assert.GreaterOrEqual(t, s.BeatsGoldPct, 0.0)
	assert.LessOrEqual(t, s.BeatsGoldPct, 100.0)
}

func TestCompute_WinRateCountsFirstRecord(t *testing.T) {
	// At the first record every value equals the amount, so a win rate
	// of 100 against a benchmark is impossible.
	params := domain.SimulationParams{
		Amount:       10000,
		GoldToSilver: math.NaN(),
		SilverToGold: math.NaN(),
		StartMetal:   domain.MetalGold,
	}
	// Gold rises relative to silver after day one.
	sim := simulatedWindow(t, 10000, params, 80, 90, 95)

	s := Compute(sim, 10000, day(1), day(3))
	assert.Greater(t, s.BeatsSilverPct, 0.0)
	assert.Less(t, s.BeatsSilverPct, 100.0)
	assert.InDelta(t, 200.0/3, s.BeatsSilverPct, 1e-9)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       string
	}{
		{"same day", day(1), day(1), "0m"},
		{"under a month", day(1), day(20), "0m"},
		{"exact months", day(1), time.Date(2020, 4, 1, 0, 0, 0, 0, time.Local), "3m"},
		{"end day before start day", time.Date(2020, 1, 15, 0, 0, 0, 0, time.Local), time.Date(2020, 4, 10, 0, 0, 0, 0, time.Local), "2m"},
		{"exact years", day(1), time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local), "3y"},
		{"years and months", day(1), time.Date(2022, 8, 15, 0, 0, 0, 0, time.Local), "2y 7m"},
		{"end before start clamps", day(20), day(1), "0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.start, tt.end))
		})
	}
}
