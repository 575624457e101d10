package formulas

// CalculateEquityDrawdown calculates the maximum drawdown of a cumulative
// P&L curve that starts at zero, as a positive percentage of the running peak.
//
// Periods before the curve first makes a positive peak cannot be expressed
// as a percentage of the peak and are ignored.
func CalculateEquityDrawdown(pnls []float64) float64 {
	peak := 0.0
	running := 0.0
	maxDrawdown := 0.0

	for _, pnl := range pnls {
		running += pnl
		if running > peak {
			peak = running
		}
		if peak <= 0 {
			continue
		}

		drawdown := (peak - running) / peak * 100
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return maxDrawdown
}
