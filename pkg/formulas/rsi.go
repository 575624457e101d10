package formulas

import (
	"github.com/markcheno/go-talib"
)

// NeutralRSI is returned whenever there is not enough movement to measure
const NeutralRSI = 50.0

// CalculateRSI calculates the Relative Strength Index
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over the trailing period deltas
//
// Gains and losses are plain averages over the last period deltas (one
// pass, no Wilder smoothing across older history). Feeding go-talib exactly
// period+1 closes yields that value since its seed is the simple average.
//
// Returns NeutralRSI when there are fewer than period+1 closes or the window
// has no movement at all. A window with gains and no losses returns 100.
func CalculateRSI(closes []float64, period int) float64 {
	if period < 2 || len(closes) < period+1 {
		return NeutralRSI
	}

	window := tail(closes, period+1)
	if IsFlat(window) {
		return NeutralRSI
	}

	rsi := talib.Rsi(window, period)
	result := rsi[len(rsi)-1]
	if isNaN(result) {
		return NeutralRSI
	}

	return result
}
