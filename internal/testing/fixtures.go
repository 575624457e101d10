package testing

import (
	"math"

	"github.com/aristath/fiisentinel/internal/domain"
)

// NewSnapshotFixtures returns a small FII universe covering the known sectors
// plus one non-FII asset
func NewSnapshotFixtures() []domain.AssetSnapshot {
	return []domain.AssetSnapshot{
		{
			Ticker:             "HGLG11",
			Name:               "CSHG Logística",
			Kind:               domain.AssetKindFII,
			Sector:             "Logístico",
			CurrentPrice:       160.5,
			DividendYield:      8.4,
			PriceChangePercent: 0.6,
			Volume:             120000,
		},
		{
			Ticker:             "KNRI11",
			Name:               "Kinea Renda Imobiliária",
			Kind:               domain.AssetKindFII,
			Sector:             "Corporativo",
			CurrentPrice:       140.2,
			DividendYield:      7.1,
			PriceChangePercent: -0.4,
			Volume:             85000,
		},
		{
			Ticker:             "XPML11",
			Name:               "XP Malls",
			Kind:               domain.AssetKindFII,
			Sector:             "Shoppings",
			CurrentPrice:       105.9,
			DividendYield:      9.8,
			PriceChangePercent: 1.2,
			Volume:             97000,
		},
		{
			Ticker:             "HTMX11",
			Name:               "Hotel Maxinvest",
			Kind:               domain.AssetKindFII,
			Sector:             "Hoteleiro",
			CurrentPrice:       100,
			DividendYield:      40,
			PriceChangePercent: 2.5,
			Volume:             3000,
		},
		{
			Ticker:             "ITUB4",
			Name:               "Itaú Unibanco",
			Kind:               domain.AssetKindStock,
			Sector:             "Financeiro",
			CurrentPrice:       33.1,
			DividendYield:      5.2,
			PriceChangePercent: -1.1,
			Volume:             2500000,
		},
	}
}

// RisingPrices returns n closes climbing by step from start
func RisingPrices(start, step float64, n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = start + step*float64(i)
	}
	return prices
}

// FallingPrices returns n closes falling by step from start
func FallingPrices(start, step float64, n int) []float64 {
	return RisingPrices(start, -step, n)
}

// OscillatingPrices returns n closes swinging around mid with the given amplitude
func OscillatingPrices(mid, amplitude float64, n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = mid + amplitude*math.Sin(float64(i)/3)
	}
	return prices
}
