package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// seriesFromDeltas builds a price series starting at start and applying deltas in order
func seriesFromDeltas(start float64, deltas []float64) []float64 {
	series := make([]float64, 0, len(deltas)+1)
	series = append(series, start)
	price := start
	for _, d := range deltas {
		price += d
		series = append(series, price)
	}
	return series
}

func TestCalculateRSI_InsufficientData(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 10, 9, 10, 11, 12, 13}

	assert.Equal(t, NeutralRSI, CalculateRSI(closes, 14))
	assert.Equal(t, NeutralRSI, CalculateRSI(closes[:0], 14))
	// period+1 closes are needed, period closes are not enough
	assert.Equal(t, NeutralRSI, CalculateRSI(seriesFromDeltas(100, make([]float64, 13)), 14))
}

func TestCalculateRSI_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		deltas   []float64
		expected float64
	}{
		{
			name:     "balanced gains and losses",
			deltas:   []float64{1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1},
			expected: 50,
		},
		{
			name:     "gains twice the losses",
			deltas:   []float64{2, -1, 2, -1, 2, -1, 2, -1, 2, -1, 2, -1, 2, -1},
			expected: 100 - 100/(1+2.0),
		},
		{
			name:     "only gains clamps to 100",
			deltas:   []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
			expected: 100,
		},
		{
			name:     "only losses",
			deltas:   []float64{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
			expected: 0,
		},
		{
			name:     "flat window is neutral",
			deltas:   make([]float64, 14),
			expected: NeutralRSI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateRSI(seriesFromDeltas(100, tt.deltas), 14), 1e-9)
		})
	}
}

func TestCalculateRSI_OnlyTrailingDeltasCount(t *testing.T) {
	trailing := []float64{1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1}
	// A huge rally well before the window must not move the result
	deltas := append([]float64{30, 30, 30, 30}, trailing...)

	assert.InDelta(t, 50.0, CalculateRSI(seriesFromDeltas(100, deltas), 14), 1e-9)
}

func TestCalculateRSI_NonIncreasingAsLossesGrow(t *testing.T) {
	gains := []float64{0.8, 1.2, 0.5, 1.0, 0.7, 0.9, 1.1}
	baseLosses := []float64{-0.3, -0.6, -0.2, -0.4, -0.5, -0.1, -0.7}

	previous := 100.0
	for scale := 0.0; scale <= 5.0; scale += 0.25 {
		deltas := make([]float64, 0, 14)
		for i := range gains {
			deltas = append(deltas, gains[i], baseLosses[i]*scale)
		}

		rsi := CalculateRSI(seriesFromDeltas(200, deltas), 14)
		assert.LessOrEqual(t, rsi, previous+1e-9, "scale %.2f", scale)
		assert.GreaterOrEqual(t, rsi, 0.0)
		assert.LessOrEqual(t, rsi, 100.0)
		previous = rsi
	}
}
