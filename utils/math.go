// Package utils contains small helpers shared by the control packages.
package utils

import (
	"math"

	"github.com/samber/lo"
)

// Clamp limits v to [lo, hi]. When lo > hi the lower bound wins for values below it and the upper
// bound for values above it, so callers get a deterministic result for inverted bounds.
func Clamp(v, low, high float64) float64 {
	return lo.Clamp(v, low, high)
}

// ClampPercent clamps a magnitude percentage to [0, 100].
func ClampPercent(pct float64) float64 {
	return lo.Clamp(pct, 0, 100)
}

// ClampSignedPercent clamps a signed percentage to [-100, 100].
func ClampSignedPercent(pct float64) float64 {
	return lo.Clamp(pct, -100, 100)
}

// Sign returns +1 for non-negative values and -1 for negative values.
func Sign(v float64) float64 {
	if v >= 0 {
		return 1
	}
	return -1
}

// Average returns the mean of the inputs, or 0 when there are none.
func Average(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}

// AbsAll returns the absolute value of every input.
func AbsAll(values ...float64) []float64 {
	return lo.Map(values, func(v float64, _ int) float64 { return math.Abs(v) })
}
