package domain

// Summary holds the end-of-window statistics for one explored window.
// All percentage fields are expressed as percentages (×100), not
// fractions.
type Summary struct {
	Amount float64

	// End-of-window values. Default to Amount on an empty window.
	EndGoldValue     float64
	EndSilverValue   float64
	EndStrategyValue float64

	// Absolute change from Amount.
	GoldChange     float64
	SilverChange   float64
	StrategyChange float64

	// Percent returns; zero when Amount <= 0.
	GoldReturnPct     float64
	SilverReturnPct   float64
	StrategyReturnPct float64

	// Strategy return minus the buy-and-hold returns.
	VsGoldPct   float64
	VsSilverPct float64

	// Fraction (×100) of records where the strategy value strictly
	// exceeds the benchmark, first record included.
	BeatsGoldPct   float64
	BeatsSilverPct float64

	SwitchCount int
	FinalMetal  Metal

	// Window span rendered as "{y}y {m}m", dropping zero components,
	// or "0m" when both are zero.
	Duration string
}
