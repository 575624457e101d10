// Package arbitrage compares market prices with an estimated NAV to find
// funds trading at a meaningful premium or discount.
package arbitrage

import (
	"math"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/rs/zerolog"
)

// OpportunityType says which side of NAV the market price sits on
type OpportunityType string

const (
	TypePremium  OpportunityType = "PREMIUM"
	TypeDiscount OpportunityType = "DISCOUNT"
)

// OpportunityLevel buckets the size of the gap
type OpportunityLevel string

const (
	LevelHigh     OpportunityLevel = "HIGH"
	LevelModerate OpportunityLevel = "MODERATE"
	LevelLow      OpportunityLevel = "LOW"
)

const (
	// MinGapPercent is the smallest gap reported by the detector
	MinGapPercent = 3.0
	// HighGapPercent and ModerateGapPercent bound the opportunity buckets
	HighGapPercent     = 10.0
	ModerateGapPercent = 5.0

	// DefaultSectorMultiple applies to unlisted sectors and non-FII assets
	DefaultSectorMultiple = 0.05
)

// sectorMultiples maps FII sectors to the yield multiple used in the NAV estimate
var sectorMultiples = map[string]float64{
	"Logístico":   0.05,
	"Corporativo": 0.03,
	"Shoppings":   0.08,
	"Residencial": 0.04,
	"Hoteleiro":   0.10,
	"Hospitalar":  0.06,
}

// Opportunity is one asset trading away from its estimated NAV
type Opportunity struct {
	Ticker      string           `json:"ticker" msgpack:"ticker"`
	Type        OpportunityType  `json:"type" msgpack:"type"`
	Percentage  float64          `json:"percentage" msgpack:"percentage"`
	NAVPrice    float64          `json:"nav_price" msgpack:"nav_price"`
	MarketPrice float64          `json:"market_price" msgpack:"market_price"`
	Opportunity OpportunityLevel `json:"opportunity" msgpack:"opportunity"`
}

// Detector finds NAV arbitrage opportunities. Stateless.
type Detector struct {
	log zerolog.Logger
}

// NewDetector creates a new arbitrage detector
func NewDetector(log zerolog.Logger) *Detector {
	return &Detector{
		log: log.With().Str("service", "arbitrage").Logger(),
	}
}

// SectorMultiple returns the NAV multiple for an asset
func SectorMultiple(asset domain.AssetSnapshot) float64 {
	switch asset.EffectiveKind() {
	case domain.AssetKindFII:
		if m, ok := sectorMultiples[asset.Sector]; ok {
			return m
		}
		return DefaultSectorMultiple
	case domain.AssetKindStock, domain.AssetKindETF, domain.AssetKindCrypto, domain.AssetKindCommodity:
		return DefaultSectorMultiple
	}
	return DefaultSectorMultiple
}

// EstimateNAV derives a naive intrinsic value from price, yield and sector
//
//	NAV = price × (1 − yield/100 × sectorMultiple)
func EstimateNAV(asset domain.AssetSnapshot) float64 {
	return asset.CurrentPrice * (1 - (asset.DividendYield/100)*SectorMultiple(asset))
}

// EvaluateNAV classifies a market price against an externally supplied NAV. ok is
// false when the NAV is not positive.
func EvaluateNAV(ticker string, marketPrice, nav float64) (Opportunity, bool) {
	if nav <= 0 || math.IsNaN(nav) || math.IsInf(nav, 0) {
		return Opportunity{}, false
	}

	premium := (marketPrice - nav) / nav * 100
	gap := math.Abs(premium)

	opp := Opportunity{
		Ticker:      ticker,
		Type:        TypeDiscount,
		Percentage:  gap,
		NAVPrice:    nav,
		MarketPrice: marketPrice,
		Opportunity: LevelLow,
	}
	if premium > 0 {
		opp.Type = TypePremium
	}

	switch {
	case gap > HighGapPercent:
		opp.Opportunity = LevelHigh
	case gap > ModerateGapPercent:
		opp.Opportunity = LevelModerate
	}

	return opp, true
}

// FindOpportunities returns the assets whose gap to NAV exceeds MinGapPercent,
// in input order. Invalid snapshots are skipped.
func (d *Detector) FindOpportunities(assets []domain.AssetSnapshot) []Opportunity {
	opportunities := make([]Opportunity, 0)

	for _, asset := range assets {
		if err := asset.Validate(); err != nil {
			d.log.Warn().Err(err).Str("ticker", asset.Ticker).Msg("Skipping invalid snapshot")
			continue
		}

		opp, ok := EvaluateNAV(asset.Ticker, asset.CurrentPrice, EstimateNAV(asset))
		if !ok {
			d.log.Debug().Str("ticker", asset.Ticker).Msg("Estimated NAV is not positive, skipping")
			continue
		}

		if opp.Percentage > MinGapPercent {
			opportunities = append(opportunities, opp)
		}
	}

	return opportunities
}
