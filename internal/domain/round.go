package domain

import "math"

// Round rounds v half away from zero to the given number of decimal places.
// Negative decimals round to tens, hundreds and so on.
func Round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
