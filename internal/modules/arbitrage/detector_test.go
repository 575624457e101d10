package arbitrage

import (
	"testing"

	"github.com/aristath/fiisentinel/internal/domain"
	testingpkg "github.com/aristath/fiisentinel/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector() *Detector {
	return NewDetector(zerolog.New(nil).Level(zerolog.Disabled))
}

func fii(ticker, sector string, price, yield float64) domain.AssetSnapshot {
	return domain.AssetSnapshot{
		Ticker:        ticker,
		Kind:          domain.AssetKindFII,
		Sector:        sector,
		CurrentPrice:  price,
		DividendYield: yield,
	}
}

func TestEstimateNAV(t *testing.T) {
	asset := fii("HGLG11", "Logístico", 110, 10)

	assert.InDelta(t, 109.45, EstimateNAV(asset), 1e-9)
}

func TestSectorMultiple(t *testing.T) {
	tests := []struct {
		asset    domain.AssetSnapshot
		expected float64
	}{
		{fii("A", "Logístico", 1, 1), 0.05},
		{fii("B", "Corporativo", 1, 1), 0.03},
		{fii("C", "Shoppings", 1, 1), 0.08},
		{fii("D", "Residencial", 1, 1), 0.04},
		{fii("E", "Hoteleiro", 1, 1), 0.10},
		{fii("F", "Hospitalar", 1, 1), 0.06},
		{fii("G", "Papel", 1, 1), DefaultSectorMultiple},
		{domain.AssetSnapshot{Ticker: "PETR4", Kind: domain.AssetKindStock, Sector: "Hoteleiro"}, DefaultSectorMultiple},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SectorMultiple(tt.asset), tt.asset.Ticker)
	}
}

func TestFindOpportunities_SmallGapIsFiltered(t *testing.T) {
	d := newTestDetector()

	// NAV 109.45, premium ≈ 0.50%
	got := d.FindOpportunities([]domain.AssetSnapshot{fii("HGLG11", "Logístico", 110, 10)})

	assert.Empty(t, got)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		market    float64
		nav       float64
		wantType  OpportunityType
		wantLevel OpportunityLevel
		wantPct   float64
	}{
		{"twenty percent premium", 120, 100, TypePremium, LevelHigh, 20},
		{"exactly ten percent is moderate", 110, 100, TypePremium, LevelModerate, 10},
		{"seven percent discount", 93, 100, TypeDiscount, LevelModerate, 7},
		{"exactly five percent is low", 95, 100, TypeDiscount, LevelLow, 5},
		{"four percent premium", 104, 100, TypePremium, LevelLow, 4},
		{"at NAV is a discount of zero", 100, 100, TypeDiscount, LevelLow, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp, ok := EvaluateNAV("X", tt.market, tt.nav)
			require.True(t, ok)

			assert.Equal(t, tt.wantType, opp.Type)
			assert.Equal(t, tt.wantLevel, opp.Opportunity)
			assert.InDelta(t, tt.wantPct, opp.Percentage, 1e-9)
			assert.Equal(t, tt.nav, opp.NAVPrice)
			assert.Equal(t, tt.market, opp.MarketPrice)
		})
	}
}

func TestClassify_NonPositiveNAV(t *testing.T) {
	_, ok := EvaluateNAV("X", 100, 0)
	assert.False(t, ok)

	_, ok = EvaluateNAV("X", 100, -5)
	assert.False(t, ok)
}

func TestFindOpportunities_FilterAndBuckets(t *testing.T) {
	d := newTestDetector()

	assets := []domain.AssetSnapshot{
		// NAV = 100 × (1 − 0.50×0.10) = 95 → premium 5.26% → MODERATE
		fii("HOTEL11", "Hoteleiro", 100, 50),
		// NAV = 100 × (1 − 0.30×0.08) = 97.6 → premium 2.46% → filtered
		fii("MALL11", "Shoppings", 100, 30),
		// NAV = 100 × (1 − 1.50×0.10) = 85 → premium 17.6% → HIGH
		fii("HIGH11", "Hoteleiro", 100, 150),
		// invalid, skipped
		fii("BAD11", "Hoteleiro", -1, 10),
	}

	got := d.FindOpportunities(assets)
	require.Len(t, got, 2)

	assert.Equal(t, "HOTEL11", got[0].Ticker)
	assert.Equal(t, TypePremium, got[0].Type)
	assert.Equal(t, LevelModerate, got[0].Opportunity)
	assert.InDelta(t, 5.0/95.0*100, got[0].Percentage, 1e-9)

	assert.Equal(t, "HIGH11", got[1].Ticker)
	assert.Equal(t, LevelHigh, got[1].Opportunity)
	assert.InDelta(t, 85.0, got[1].NAVPrice, 1e-9)
}

func TestFindOpportunities_EveryResultClearsThreshold(t *testing.T) {
	d := newTestDetector()

	var assets []domain.AssetSnapshot
	for yield := 0.0; yield <= 200; yield += 2.5 {
		assets = append(assets, fii("T", "Shoppings", 50, yield))
	}

	for _, opp := range d.FindOpportunities(assets) {
		assert.Greater(t, opp.Percentage, MinGapPercent)
		assert.GreaterOrEqual(t, opp.Percentage, 0.0)
	}
}

func TestFindOpportunities_Empty(t *testing.T) {
	d := newTestDetector()

	got := d.FindOpportunities(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindOpportunities_Fixtures(t *testing.T) {
	opps := newTestDetector().FindOpportunities(testingpkg.NewSnapshotFixtures())

	require.Len(t, opps, 1)
	assert.Equal(t, "HTMX11", opps[0].Ticker)
	assert.Equal(t, TypePremium, opps[0].Type)
	assert.Equal(t, LevelLow, opps[0].Opportunity)
	assert.InDelta(t, 96.0, opps[0].NAVPrice, 1e-9)
}
