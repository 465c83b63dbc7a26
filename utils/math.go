package utils

import (
	"math"
)

// MaxInt returns the larger of a and b.
func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}

// MinInt returns the smaller of a and b.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ClampF restricts v to [lo, hi].
func ClampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Float64AlmostEqual returns whether two floats are within epsilon of each other.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// SnapToInt returns the nearest integer to v when v lies within epsilon of it, otherwise v.
func SnapToInt(v, epsilon float64) float64 {
	r := math.Round(v)
	if math.Abs(v-r) <= epsilon {
		return r
	}
	return v
}
