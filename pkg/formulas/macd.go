package formulas

// MACD holds the MACD line, its signal line and the histogram
type MACD struct {
	Value     float64 `json:"value" msgpack:"value"`
	Signal    float64 `json:"signal" msgpack:"signal"`
	Histogram float64 `json:"histogram" msgpack:"histogram"`
}

const (
	macdFastPeriod = 12
	macdSlowPeriod = 26

	// MACDSignalFactor approximates the signal line as a fixed fraction of
	// the MACD line instead of a 9-period EMA of the MACD series.
	MACDSignalFactor = 0.9
)

// CalculateMACD calculates MACD from EMA12 and EMA26 over the full series
//
//	Value     = EMA12 - EMA26
//	Signal    = Value × 0.9
//	Histogram = Value - Signal
func CalculateMACD(closes []float64) MACD {
	value := CalculateEMA(closes, macdFastPeriod) - CalculateEMA(closes, macdSlowPeriod)
	signal := value * MACDSignalFactor

	return MACD{
		Value:     value,
		Signal:    signal,
		Histogram: value - signal,
	}
}
