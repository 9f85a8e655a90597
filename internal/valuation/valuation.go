// Package valuation marks a fixed buy-and-hold position to market over
// a windowed price series.
package valuation

import "metal-ratio-lab/internal/domain"

// Value re-prices a one-time purchase made at the window's first
// record. The ounce position never changes; every record's value is
// units times that record's price. Non-positive amounts or first
// prices produce zero-valued trajectories rather than infinities.
func Value(windowed domain.Series, amount float64) []*domain.ValuedRecord {
	out := make([]*domain.ValuedRecord, 0, len(windowed))
	if len(windowed) == 0 {
		return out
	}

	first := windowed[0]
	goldUnits := unitsFor(amount, first.Gold)
	silverUnits := unitsFor(amount, first.Silver)

	for _, rec := range windowed {
		out = append(out, &domain.ValuedRecord{
			PriceRecord: *rec,
			GoldValue:   goldUnits * rec.Gold,
			SilverValue: silverUnits * rec.Silver,
		})
	}
	return out
}

func unitsFor(amount, price float64) float64 {
	if amount <= 0 || price <= 0 {
		return 0
	}
	return amount / price
}
