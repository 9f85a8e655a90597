package domain

import (
	"fmt"
	"math"
)

// DefaultSwitchCostPct is the fraction of value lost on each
// reallocation between metals.
const DefaultSwitchCostPct = 0.03

// SimulationParams configures one switching-strategy run. A non-finite
// threshold (NaN or ±Inf) disables that trigger entirely.
type SimulationParams struct {
	Amount        float64 // starting USD amount
	GoldToSilver  float64 // GSR threshold crossed upward while holding gold
	SilverToGold  float64 // GSR threshold crossed downward while holding silver
	StartMetal    Metal
	SwitchCostPct float64
}

// WithDefaults returns a copy with the default switch cost applied
// when none was set.
func (p SimulationParams) WithDefaults() SimulationParams {
	if p.SwitchCostPct == 0 {
		p.SwitchCostPct = DefaultSwitchCostPct
	}
	return p
}

// Validate checks structural validity. Threshold values are not
// validated: any real number is allowed and non-finite means disabled.
func (p SimulationParams) Validate() error {
	if !p.StartMetal.Valid() {
		return fmt.Errorf("invalid start metal %q", p.StartMetal)
	}
	if p.Amount < 0 {
		return fmt.Errorf("amount must be >= 0, got %v", p.Amount)
	}
	if p.SwitchCostPct < 0 || p.SwitchCostPct >= 1 {
		return fmt.Errorf("switch cost must be in [0,1), got %v", p.SwitchCostPct)
	}
	return nil
}

// GoldToSilverEnabled reports whether the upward trigger is active.
func (p SimulationParams) GoldToSilverEnabled() bool {
	return !math.IsNaN(p.GoldToSilver) && !math.IsInf(p.GoldToSilver, 0)
}

// SilverToGoldEnabled reports whether the downward trigger is active.
func (p SimulationParams) SilverToGoldEnabled() bool {
	return !math.IsNaN(p.SilverToGold) && !math.IsInf(p.SilverToGold, 0)
}
