package formulas

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBollingerBands_KnownWindow(t *testing.T) {
	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	bands := CalculateBollingerBands(closes, 8, 2)

	// mean 5, population std dev 2
	assert.InDelta(t, 5.0, bands.Middle, 1e-9)
	assert.InDelta(t, 9.0, bands.Upper, 1e-9)
	assert.InDelta(t, 1.0, bands.Lower, 1e-9)
	assert.InDelta(t, 8.0, bands.Width(), 1e-9)
}

func TestCalculateBollingerBands_UsesTrailingPeriod(t *testing.T) {
	closes := []float64{1000, 1000, 2, 4, 4, 4, 5, 5, 7, 9}

	bands := CalculateBollingerBands(closes, 8, 2)

	assert.InDelta(t, 5.0, bands.Middle, 1e-9)
	assert.InDelta(t, 9.0, bands.Upper, 1e-9)
}

func TestCalculateBollingerBands_ConstantSeriesCollapses(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10}

	bands := CalculateBollingerBands(closes, 20, 2)

	assert.InDelta(t, 10.0, bands.Upper, 1e-9)
	assert.InDelta(t, 10.0, bands.Middle, 1e-9)
	assert.InDelta(t, 10.0, bands.Lower, 1e-9)
}

func TestCalculateBollingerBands_ShortHistory(t *testing.T) {
	closes := []float64{10, 12}

	bands := CalculateBollingerBands(closes, 20, 2)

	// middle follows SMA (last close); squared deviations (4 + 0) are averaged over the period of 20
	assert.InDelta(t, 12.0, bands.Middle, 1e-9)
	assert.InDelta(t, 12+2*math.Sqrt(0.2), bands.Upper, 1e-9)
	assert.InDelta(t, 12-2*math.Sqrt(0.2), bands.Lower, 1e-9)
}

func TestCalculateBollingerBands_Empty(t *testing.T) {
	assert.Equal(t, BollingerBands{}, CalculateBollingerBands(nil, 20, 2))
}

func TestCalculateBollingerBands_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for n := 0; n < 60; n++ {
		closes := make([]float64, n)
		price := 100.0
		for i := range closes {
			price *= 1 + (rng.Float64()-0.5)*0.04
			closes[i] = price
		}

		bands := CalculateBollingerBands(closes, 20, 2)
		assert.InDelta(t, bands.Upper-bands.Middle, bands.Middle-bands.Lower, 1e-9, "length %d", n)
		assert.GreaterOrEqual(t, bands.Upper, bands.Lower)
	}
}
