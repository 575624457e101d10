// Package formulas implements the technical indicators and statistics used by
// the signal engine. All functions are pure and safe for concurrent use.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// PopVariance calculates the population variance (divides by N, not N-1)
func PopVariance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.PopVariance(data, nil)
}

// PopStdDev calculates the population standard deviation
func PopStdDev(data []float64) float64 {
	return math.Sqrt(PopVariance(data))
}

// Sum adds up all values
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Sum(data)
}

// IsFlat reports whether every value in the slice is identical
func IsFlat(data []float64) bool {
	if len(data) < 2 {
		return true
	}
	return floats.Max(data) == floats.Min(data)
}

// AllFinite reports whether the slice contains no NaN or Inf values
func AllFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// last returns the most recent value or 0 for an empty series
func last(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return data[len(data)-1]
}

// tail returns the trailing n values (the whole slice when shorter)
func tail(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	return data[len(data)-n:]
}
