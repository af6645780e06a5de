// Package scale builds the visual-encoding functions for the flow map:
// a square-root radius scale for proportional symbols and a log10 width
// scale for flow lines. Both are computed once from the full value range
// of the loaded dataset and are pure functions afterwards.
package scale

import (
	"math"
)

// Default visual encoding limits.
const (
	MinRadius = 4.0
	MaxRadius = 25.0
	MinWidth  = 1.0
	MaxWidth  = 10.0
)

// Bounds holds the observed value range used to build the scales:
// the smallest positive volume and the largest volume across all
// destination records plus the origin.
type Bounds struct {
	MinPositive float64
	Max         float64
}

// BoundsOf computes Bounds over the given volumes. Non-positive and NaN
// values are ignored. ok is false when no positive volume exists, in
// which case scaling degenerates to the constant minimum radius/width.
func BoundsOf(volumes []float64) (b Bounds, ok bool) {
	for _, v := range volumes {
		if v <= 0 || math.IsNaN(v) {
			continue
		}
		if !ok {
			b = Bounds{MinPositive: v, Max: v}
			ok = true
			continue
		}
		if v < b.MinPositive {
			b.MinPositive = v
		}
		if v > b.Max {
			b.Max = v
		}
	}
	return b, ok
}

// Radius returns a function mapping a volume to a symbol radius.
// Square-root scaling keeps the symbol *area* proportional to the
// volume, the standard convention for proportional-symbol maps.
//
// Non-positive and NaN inputs map to MinRadius. A non-positive or NaN
// maxValue is treated as 1 to avoid division by zero.
func Radius(maxValue float64) func(v float64) float64 {
	if maxValue <= 0 || math.IsNaN(maxValue) {
		maxValue = 1
	}
	sqrtMax := math.Sqrt(maxValue)
	return func(v float64) float64 {
		if v <= 0 || math.IsNaN(v) {
			return MinRadius
		}
		return MinRadius + (MaxRadius-MinRadius)*math.Sqrt(v)/sqrtMax
	}
}

// LineWidth returns a function mapping a total volume to a stroke
// width in [MinWidth, MaxWidth]. Logarithmic scaling compresses a range
// spanning several orders of magnitude so the smallest flows stay
// visible.
//
// Non-positive and NaN inputs map to MinWidth. When all positive
// volumes are identical (MinPositive == Max) the log span is zero; the
// ratio is defined as 1 so the single observed magnitude renders at
// full weight.
func LineWidth(b Bounds) func(t float64) float64 {
	minLog := math.Log10(b.MinPositive)
	maxLog := math.Log10(b.Max)
	span := maxLog - minLog
	return func(t float64) float64 {
		if t <= 0 || math.IsNaN(t) {
			return MinWidth
		}
		ratio := 1.0
		if span > 0 {
			ratio = (math.Log10(t) - minLog) / span
		}
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		return MinWidth + ratio*(MaxWidth-MinWidth)
	}
}
