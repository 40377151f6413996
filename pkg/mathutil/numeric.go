// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/hydrocast/hydrocast/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp constrains a value to the closed interval [min, max].
func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Linspace returns n linearly spaced values from min to max inclusive.
// n must be at least 2; min and max are always the first and last samples.
func Linspace(min, max float64, n int) []float64 {
	if n < 2 {
		return []float64{min}
	}
	values := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := 0; i < n; i++ {
		values[i] = min + float64(i)*step
	}
	// Guard against floating point drift on the final sample.
	values[n-1] = max
	return values
}
