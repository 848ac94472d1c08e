package utils

import (
	"math"
)

// ScaleRound multiplies an integer amount by factor and rounds to the nearest
// integer, halves away from zero
func ScaleRound(value int, factor float64) int {
	return int(math.Round(float64(value) * factor))
}

// ClampInt limits a value between min and max
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
