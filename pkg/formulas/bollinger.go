package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// BollingerBands represents Bollinger Bands values
type BollingerBands struct {
	Upper  float64 `json:"upper" msgpack:"upper"`
	Middle float64 `json:"middle" msgpack:"middle"`
	Lower  float64 `json:"lower" msgpack:"lower"`
}

// Width returns the distance between the upper and lower band
func (b BollingerBands) Width() float64 {
	return b.Upper - b.Lower
}

// CalculateBollingerBands calculates Bollinger Bands
//
// Bollinger Bands Formula:
//
//	Middle Band = period SMA
//	Upper Band = Middle + (k × population std deviation of the last period closes)
//	Lower Band = Middle - (k × population std deviation of the last period closes)
//
// With fewer than period closes the middle band follows CalculateSMA (the
// last close) and the squared deviations of the available closes around it
// are still averaged over period. An empty series yields zero bands.
func CalculateBollingerBands(closes []float64, period int, stdDevMultiplier float64) BollingerBands {
	if len(closes) == 0 {
		return BollingerBands{}
	}

	if period > 0 && len(closes) >= period {
		window := tail(closes, period)
		upper, middle, lower := talib.BBands(window, period, stdDevMultiplier, stdDevMultiplier, talib.SMA)
		i := len(window) - 1
		if !isNaN(upper[i]) && !isNaN(lower[i]) {
			return BollingerBands{
				Upper:  upper[i],
				Middle: middle[i],
				Lower:  lower[i],
			}
		}
	}

	middle := CalculateSMA(closes, period)
	window := tail(closes, period)

	var sumSq float64
	for _, price := range window {
		d := price - middle
		sumSq += d * d
	}
	divisor := float64(len(window))
	if period > 0 {
		divisor = float64(period)
	}
	halfWidth := math.Sqrt(sumSq/divisor) * stdDevMultiplier

	return BollingerBands{
		Upper:  middle + halfWidth,
		Middle: middle,
		Lower:  middle - halfWidth,
	}
}
