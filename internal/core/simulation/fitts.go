package simulation

import "math"

// IndexOfDifficulty is the Shannon formulation log2(distance/width + 1), in bits.
func IndexOfDifficulty(distance, width float64) float64 {
	return math.Log2(distance/width + 1)
}

// MovementTime predicts the duration of a pointing movement by Fitts' law,
// a + b·ID, with a and b fitted per user and device.
func MovementTime(a, b, distance, width float64) float64 {
	return a + b*IndexOfDifficulty(distance, width)
}
