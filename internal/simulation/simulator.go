// Package simulation runs the threshold-switching strategy over a
// valued window. The simulator is a pure left-to-right fold: given the
// same window and parameters it replays identically, and any parameter
// change rebuilds the whole trajectory from the first record.
package simulation

import "metal-ratio-lab/internal/domain"

// position is the fold accumulator carried record to record.
type position struct {
	heldMetal   domain.Metal
	unitsHeld   float64
	switchCount int
}

func (p position) value(r *domain.ValuedRecord) float64 {
	return p.unitsHeld * price(p.heldMetal, r)
}

func price(m domain.Metal, r *domain.ValuedRecord) float64 {
	if m == domain.MetalGold {
		return r.Gold
	}
	return r.Silver
}

// Simulate folds the switching strategy over the valued window.
// Each record after the first is compared against its immediate
// predecessor's ratio:
//
//   - holding gold, a switch to silver fires when the ratio crosses
//     the gold-to-silver threshold upward: prev below, current at or
//     above;
//   - holding silver, a switch to gold fires when the ratio crosses
//     the silver-to-gold threshold downward: prev above, current at
//     or below.
//
// The boundary belongs to the "after" side: a prev exactly on the
// threshold does not fire. At most one transition happens per record.
// Every switch liquidates into USD at the current record's prices and
// rebuys the other metal less the conversion cost. A disabled
// (non-finite) threshold never fires.
func Simulate(valued []*domain.ValuedRecord, params domain.SimulationParams) []*domain.SimulatedRecord {
	params = params.WithDefaults()

	out := make([]*domain.SimulatedRecord, 0, len(valued))
	if len(valued) == 0 {
		return out
	}

	first := valued[0]
	pos := position{heldMetal: params.StartMetal}
	if p := price(pos.heldMetal, first); params.Amount > 0 && p > 0 {
		pos.unitsHeld = params.Amount / p
	}
	out = append(out, simulated(first, pos))

	for i := 1; i < len(valued); i++ {
		prev, cur := valued[i-1], valued[i]
		pos = step(pos, prev, cur, params)
		out = append(out, simulated(cur, pos))
	}
	return out
}

// step applies the transition rule for one record.
func step(pos position, prev, cur *domain.ValuedRecord, params domain.SimulationParams) position {
	switch pos.heldMetal {
	case domain.MetalGold:
		if params.GoldToSilverEnabled() &&
			prev.GSR < params.GoldToSilver && cur.GSR >= params.GoldToSilver {
			return reallocate(pos, cur, params.SwitchCostPct)
		}
	case domain.MetalSilver:
		if params.SilverToGoldEnabled() &&
			prev.GSR > params.SilverToGold && cur.GSR <= params.SilverToGold {
			return reallocate(pos, cur, params.SwitchCostPct)
		}
	}
	return pos
}

// reallocate liquidates the position at cur's prices and rebuys the
// other metal, charging the conversion cost on the new units.
func reallocate(pos position, cur *domain.ValuedRecord, costPct float64) position {
	usd := pos.value(cur)
	next := pos.heldMetal.Other()

	units := 0.0
	if p := price(next, cur); p > 0 {
		units = usd / p * (1 - costPct)
	}
	return position{
		heldMetal:   next,
		unitsHeld:   units,
		switchCount: pos.switchCount + 1,
	}
}

func simulated(r *domain.ValuedRecord, pos position) *domain.SimulatedRecord {
	return &domain.SimulatedRecord{
		ValuedRecord:  *r,
		StrategyValue: pos.value(r),
		HeldMetal:     pos.heldMetal,
		SwitchCount:   pos.switchCount,
	}
}
