// Package metrics reduces a simulated window into end-of-window
// summary statistics.
package metrics

import (
	"fmt"
	"time"

	"metal-ratio-lab/internal/domain"
)

// Compute derives the summary for one simulated window. An empty
// window yields start-amount end values, zero returns, and a "0m"
// duration rather than an error.
func Compute(sim []*domain.SimulatedRecord, amount float64, start, end time.Time) *domain.Summary {
	s := &domain.Summary{
		Amount:           amount,
		EndGoldValue:     amount,
		EndSilverValue:   amount,
		EndStrategyValue: amount,
		Duration:         FormatDuration(start, end),
	}
	if len(sim) > 0 {
		last := sim[len(sim)-1]
		s.EndGoldValue = last.GoldValue
		s.EndSilverValue = last.SilverValue
		s.EndStrategyValue = last.StrategyValue
		s.SwitchCount = last.SwitchCount
		s.FinalMetal = last.HeldMetal
	}

	s.GoldChange = s.EndGoldValue - amount
	s.SilverChange = s.EndSilverValue - amount
	s.StrategyChange = s.EndStrategyValue - amount

	s.GoldReturnPct = returnPct(s.EndGoldValue, amount)
	s.SilverReturnPct = returnPct(s.EndSilverValue, amount)
	s.StrategyReturnPct = returnPct(s.EndStrategyValue, amount)

	s.VsGoldPct = s.StrategyReturnPct - s.GoldReturnPct
	s.VsSilverPct = s.StrategyReturnPct - s.SilverReturnPct

	s.BeatsGoldPct = winRate(sim, func(r *domain.SimulatedRecord) float64 { return r.GoldValue })
	s.BeatsSilverPct = winRate(sim, func(r *domain.SimulatedRecord) float64 { return r.SilverValue })
	return s
}

func returnPct(end, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	return (end/amount - 1) * 100
}

// winRate counts records where the strategy value strictly exceeds the
// benchmark, the initial record included. Ties are not wins.
func winRate(sim []*domain.SimulatedRecord, benchmark func(*domain.SimulatedRecord) float64) float64 {
	if len(sim) == 0 {
		return 0
	}
	wins := 0
	for _, r := range sim {
		if r.StrategyValue > benchmark(r) {
			wins++
		}
	}
	return float64(wins) / float64(len(sim)) * 100
}

// FormatDuration renders the calendar span between start and end as
// "{y}y {m}m", dropping zero components, or "0m" when both are zero.
// The month count is decremented when the end day-of-month precedes
// the start day-of-month, and never goes negative.
func FormatDuration(start, end time.Time) string {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}

	years, months := months/12, months%12
	switch {
	case years > 0 && months > 0:
		return fmt.Sprintf("%dy %dm", years, months)
	case years > 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dm", months)
	}
}
