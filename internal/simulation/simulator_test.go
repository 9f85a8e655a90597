package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/valuation"
)

// valuedFromGSR builds a valued window with silver fixed at 20 USD and
// gold derived from the requested ratios.
func valuedFromGSR(amount float64, ratios ...float64) []*domain.ValuedRecord {
	series := make(domain.Series, 0, len(ratios))
	for i, gsr := range ratios {
		date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local).AddDate(0, 0, i)
		series = append(series, domain.NewPriceRecord(date, gsr*20, 20))
	}
	return valuation.Value(series, amount)
}

func TestSimulate_SwitchDeterminism(t *testing.T) {
	valued := valuedFromGSR(10000, 80, 84, 86, 83)
	params := domain.SimulationParams{
		Amount:       10000,
		GoldToSilver: 85,
		SilverToGold: 65,
		StartMetal:   domain.MetalGold,
	}

	sim := Simulate(valued, params)
	require.Len(t, sim, 4)

	// 84 < 85: no fire. 84 -> 86 crosses 85: fire. 83 still above the
	// silver-to-gold threshold of 65: no fire.
	assert.Equal(t, domain.MetalGold, sim[1].HeldMetal)
	assert.Equal(t, 0, sim[1].SwitchCount)
	assert.Equal(t, domain.MetalSilver, sim[2].HeldMetal)
	assert.Equal(t, 1, sim[2].SwitchCount)
	assert.Equal(t, domain.MetalSilver, sim[3].HeldMetal)
	assert.Equal(t, 1, sim[3].SwitchCount)
}

func TestSimulate_CostAppliedOncePerSwitch(t *testing.T) {
	valued := valuedFromGSR(10000, 80, 86, 87)
	params := domain.SimulationParams{
		Amount:       10000,
		GoldToSilver: 85,
		SilverToGold: 65,
		StartMetal:   domain.MetalGold,
	}

	sim := Simulate(valued, params)
	require.Len(t, sim, 3)

	// Units at the switch: pre-switch USD value / silver price * 0.97.
	goldUnits := 10000.0 / (80 * 20)
	usdAtSwitch := goldUnits * 86 * 20
	silverUnits := usdAtSwitch / 20 * 0.97

	assert.InDelta(t, silverUnits*20, sim[1].StrategyValue, 1e-9)
	// No further cost after the switch: the value just tracks silver.
	assert.InDelta(t, silverUnits*20, sim[2].StrategyValue, 1e-9)
}

func TestSimulate_TieOnPrevDoesNotFire(t *testing.T) {
	// prev exactly on the threshold: the boundary belongs to the
	// "after" side, so no cross.
	valued := valuedFromGSR(10000, 85, 86)
	params := domain.SimulationParams{
		Amount:       10000,
		GoldToSilver: 85,
		SilverToGold: math.NaN(),
		StartMetal:   domain.MetalGold,
	}

	sim := Simulate(valued, params)
	require.Len(t, sim, 2)
	assert.Equal(t, domain.MetalGold, sim[1].HeldMetal)
	assert.Equal(t, 0, sim[1].SwitchCount)
}

func TestSimulate_DisabledThresholds(t *testing.T) {
	for _, threshold := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		valued := valuedFromGSR(10000, 80, 90, 60)
		params := domain.SimulationParams{
			Amount:       10000,
			GoldToSilver: threshold,
			SilverToGold: threshold,
			StartMetal:   domain.MetalGold,
		}

		sim := Simulate(valued, params)
		for _, r := range sim {
			assert.Equal(t, 0, r.SwitchCount)
			assert.Equal(t, domain.MetalGold, r.HeldMetal)
		}
	}
}

func TestSimulate_RoundTrip(t *testing.T) {
	// Up through g2s, back down through s2g: two switches, ending
	// in gold.
	valued := valuedFromGSR(10000, 80, 86, 70, 64)
	params := domain.SimulationParams{
		Amount:       10000,
		GoldToSilver: 85,
		SilverToGold: 65,
		StartMetal:   domain.MetalGold,
	}

	sim := Simulate(valued, params)
	require.Len(t, sim, 4)
	assert.Equal(t, domain.MetalSilver, sim[1].HeldMetal)
	assert.Equal(t, domain.MetalGold, sim[3].HeldMetal)
	assert.Equal(t, 2, sim[3].SwitchCount)
}

func TestSimulate_StartMetalSilver(t *testing.T) {
	valued := valuedFromGSR(10000, 80, 86)
	params := domain.SimulationParams{
		Amount:       10000,
		GoldToSilver: 85,
		SilverToGold: 65,
		StartMetal:   domain.MetalSilver,
	}

	sim := Simulate(valued, params)
	require.Len(t, sim, 2)

	// The upward cross only fires while holding gold.
	assert.Equal(t, domain.MetalSilver, sim[1].HeldMetal)
	assert.Equal(t, 0, sim[1].SwitchCount)
	assert.InDelta(t, 10000, sim[0].StrategyValue, 1e-9)
}

func TestSimulate_InitialValueEqualsAmount(t *testing.T) {
	valued := valuedFromGSR(5000, 75, 78)
	for _, metal := range []domain.Metal{domain.MetalGold, domain.MetalSilver} {
		sim := Simulate(valued, domain.SimulationParams{
			Amount:       5000,
			GoldToSilver: math.NaN(),
			SilverToGold: math.NaN(),
			StartMetal:   metal,
		})
		require.NotEmpty(t, sim)
		assert.InDelta(t, 5000, sim[0].StrategyValue, 1e-9)
	}
}

func TestSimulate_EmptyWindow(t *testing.T) {
	sim := Simulate(nil, domain.SimulationParams{Amount: 1000, StartMetal: domain.MetalGold})
	assert.Empty(t, sim)
}

func TestSimulate_Deterministic(t *testing.T) {
	valued := valuedFromGSR(10000, 80, 84, 86, 83, 70, 64, 90)
	params := domain.SimulationParams{
		Amount:       10000,
		GoldToSilver: 85,
		SilverToGold: 65,
		StartMetal:   domain.MetalGold,
	}

	a := Simulate(valued, params)
	b := Simulate(valued, params)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, *a[i], *b[i])
	}
}

func TestSimulate_CustomCost(t *testing.T) {
	valued := valuedFromGSR(10000, 80, 86)
	params := domain.SimulationParams{
		Amount:        10000,
		GoldToSilver:  85,
		SilverToGold:  65,
		StartMetal:    domain.MetalGold,
		SwitchCostPct: 0.10,
	}

	sim := Simulate(valued, params)
	require.Len(t, sim, 2)

	goldUnits := 10000.0 / (80 * 20)
	usdAtSwitch := goldUnits * 86 * 20
	assert.InDelta(t, usdAtSwitch*0.90, sim[1].StrategyValue, 1e-9)
}
