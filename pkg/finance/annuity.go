// Package finance provides common financial calculation utilities.
package finance

import "math"

// CapitalRecoveryFactor converts a lump capital cost into an equivalent
// annual payment for discount rate r over n years. For r = 0 the annuity
// degenerates to straight-line recovery, 1/n.
func CapitalRecoveryFactor(r float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	if r == 0 {
		return 1 / float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	return r * growth / (growth - 1)
}

// DiscountFactor returns the present-value factor 1/(1+r)^t for year t.
func DiscountFactor(r float64, t int) float64 {
	return 1 / math.Pow(1+r, float64(t))
}
