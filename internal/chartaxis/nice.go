// Package chartaxis computes rounded chart-axis domains and tick sets
// from raw value scans. The same routine serves the USD-value axis and
// the ratio axis; only the inputs and the zero-floor flag differ.
package chartaxis

import (
	"math"

	"metal-ratio-lab/internal/domain"
)

// Defaults for NiceDomain options.
const (
	DefaultTargetTicks = 7
	DefaultPadFraction = 0.06
)

// niceSteps are the candidate tick-step mantissas, applied at the
// power of ten nearest the rough step.
var niceSteps = []float64{1, 2, 2.5, 5, 10}

// Options configures NiceDomain. Zero values fall back to the package
// defaults.
type Options struct {
	TargetTicks    int
	PadFraction    float64
	ClampMinToZero bool
}

// NiceDomain scans values and returns a padded, rounded axis domain
// with ticks at every step multiple.
//
// Empty input yields the auto sentinel; the renderer keeps its own
// default scaling. A flat series yields a one-unit band around the
// value with exactly three ticks. Otherwise the raw extent is padded
// asymmetrically (a quarter of the pad below, the full pad above, so
// series never touch the top edge) and rounded outward to the nearest
// nice step.
func NiceDomain(values []float64, opts Options) domain.AxisSpec {
	if opts.TargetTicks == 0 {
		opts.TargetTicks = DefaultTargetTicks
	}
	if opts.PadFraction == 0 {
		opts.PadFraction = DefaultPadFraction
	}

	min, max, any := scan(values)
	if !any {
		return domain.AxisSpec{Auto: true}
	}

	if min == max {
		return domain.AxisSpec{
			Min:   min - 1,
			Max:   min + 1,
			Ticks: []float64{min - 1, min, min + 1},
		}
	}

	pad := (max - min) * opts.PadFraction
	paddedMin := min - pad*0.25
	paddedMax := max + pad
	if opts.ClampMinToZero && paddedMin < 0 {
		paddedMin = 0
	}

	step := nearestStep(paddedMax - paddedMin, opts.TargetTicks)
	niceMin := math.Floor(paddedMin/step) * step
	niceMax := math.Ceil(paddedMax/step) * step

	return domain.AxisSpec{
		Min:   niceMin,
		Max:   niceMax,
		Ticks: tickRange(niceMin, niceMax, step),
	}
}

// scan returns the finite min/max of values and whether any finite
// value was present.
func scan(values []float64) (min, max float64, any bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !any {
			min, max = v, v
			any = true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, any
}

// nearestStep picks the candidate step closest to the rough step for
// the padded range.
func nearestStep(rng float64, targetTicks int) float64 {
	divisions := targetTicks - 1
	if divisions < 2 {
		divisions = 2
	}
	rough := rng / float64(divisions)
	pow10 := math.Pow(10, math.Floor(math.Log10(rough)))

	best := niceSteps[0] * pow10
	bestDist := math.Abs(best - rough)
	for _, s := range niceSteps[1:] {
		candidate := s * pow10
		if d := math.Abs(candidate - rough); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best
}

// tickRange emits every multiple of step from lo to hi inclusive. The
// half-step epsilon absorbs float drift at the upper bound.
func tickRange(lo, hi, step float64) []float64 {
	var ticks []float64
	for v := lo; v <= hi+step/2; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

// ValueAxisValues collects the USD values feeding the value axis from
// the simulated window, honoring the visibility toggles.
func ValueAxisValues(records []*domain.SimulatedRecord, showGold, showSilver, showStrategy bool) []float64 {
	var values []float64
	for _, r := range records {
		if showGold {
			values = append(values, r.GoldValue)
		}
		if showSilver {
			values = append(values, r.SilverValue)
		}
		if showStrategy {
			values = append(values, r.StrategyValue)
		}
	}
	return values
}

// RatioAxisValues collects the GSR values feeding the ratio axis.
func RatioAxisValues(records []*domain.SimulatedRecord) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.GSR
	}
	return values
}
