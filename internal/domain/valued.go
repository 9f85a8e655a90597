package domain

// ValuedRecord extends a price record with the marked-to-market USD
// value of fixed gold and silver positions established at the window's
// first record.
type ValuedRecord struct {
	PriceRecord
	GoldValue   float64
	SilverValue float64
}

// SimulatedRecord extends a valued record with the switching-strategy
// portfolio state at that day. SwitchCount is monotonic non-decreasing
// across a simulation run.
type SimulatedRecord struct {
	ValuedRecord
	StrategyValue float64
	HeldMetal     Metal
	SwitchCount   int
}
