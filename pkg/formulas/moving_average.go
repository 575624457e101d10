package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateSMA calculates the Simple Moving Average of the trailing period
//
// Short histories degrade gracefully: with fewer than period closes the most
// recent close is returned (0 for an empty series) instead of failing.
func CalculateSMA(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return last(closes)
	}

	window := tail(closes, period)
	sma := talib.Sma(window, period)
	result := sma[len(sma)-1]
	if isNaN(result) {
		return Mean(window)
	}
	return result
}

// CalculateEMA calculates the Exponential Moving Average
//
// EMA Formula:
//
//	EMA_today = (Price_today × multiplier) + (EMA_yesterday × (1 - multiplier))
//	where multiplier = 2 / (period + 1)
//
// The EMA is seeded with the first close and blended through the whole
// series, so the smoothing window is implied by the series length rather
// than truncated to period.
func CalculateEMA(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) == 1 || period <= 0 {
		return closes[len(closes)-1]
	}

	multiplier := 2.0 / float64(period+1)
	ema := closes[0]
	for _, price := range closes[1:] {
		ema = price*multiplier + ema*(1-multiplier)
	}

	return ema
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
