// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"math"
	"strings"
)

// AssetKind discriminates the asset classes tracked by the dashboard
type AssetKind string

const (
	// AssetKindFII represents Brazilian real-estate investment funds
	AssetKindFII AssetKind = "FII"
	// AssetKindStock represents listed equities
	AssetKindStock AssetKind = "STOCK"
	// AssetKindETF represents exchange traded funds
	AssetKindETF AssetKind = "ETF"
	// AssetKindCrypto represents crypto currencies
	AssetKindCrypto AssetKind = "CRYPTO"
	// AssetKindCommodity represents commodities (gold, oil, ...)
	AssetKindCommodity AssetKind = "COMMODITY"
)

// AssetKinds lists every supported kind
var AssetKinds = []AssetKind{
	AssetKindFII,
	AssetKindStock,
	AssetKindETF,
	AssetKindCrypto,
	AssetKindCommodity,
}

// Valid reports whether the kind is one of the supported asset kinds
func (k AssetKind) Valid() bool {
	switch k {
	case AssetKindFII, AssetKindStock, AssetKindETF, AssetKindCrypto, AssetKindCommodity:
		return true
	}
	return false
}

// PaysDistributions reports whether the asset class carries a dividend yield
func (k AssetKind) PaysDistributions() bool {
	switch k {
	case AssetKindFII, AssetKindStock, AssetKindETF:
		return true
	case AssetKindCrypto, AssetKindCommodity:
		return false
	}
	return false
}

// ParseAssetKind parses a kind case-insensitively. An empty string means FII.
func ParseAssetKind(s string) (AssetKind, error) {
	if strings.TrimSpace(s) == "" {
		return AssetKindFII, nil
	}
	kind := AssetKind(strings.ToUpper(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown asset kind %q", ErrInvalidInput, s)
	}
	return kind, nil
}

// AssetSnapshot is the per-refresh view of one asset supplied by the caller.
// It is never persisted by the engine.
type AssetSnapshot struct {
	Ticker             string    `json:"ticker" msgpack:"ticker"`
	Name               string    `json:"name" msgpack:"name"`
	Kind               AssetKind `json:"kind" msgpack:"kind"`
	Sector             string    `json:"sector" msgpack:"sector"`
	CurrentPrice       float64   `json:"current_price" msgpack:"current_price"`
	DividendYield      float64   `json:"dividend_yield" msgpack:"dividend_yield"` // percent, e.g. 9.5
	PriceChangePercent float64   `json:"price_change_percent" msgpack:"price_change_percent"`
	Volume             int64     `json:"volume" msgpack:"volume"`
}

// Validate rejects snapshots the engine cannot reason about
func (a AssetSnapshot) Validate() error {
	if strings.TrimSpace(a.Ticker) == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidInput)
	}
	if a.Kind != "" && !a.Kind.Valid() {
		return fmt.Errorf("%w: %s: unknown asset kind %q", ErrInvalidInput, a.Ticker, a.Kind)
	}
	if !finite(a.CurrentPrice) || a.CurrentPrice <= 0 {
		return fmt.Errorf("%w: %s: current price must be a positive number", ErrInvalidInput, a.Ticker)
	}
	if !finite(a.DividendYield) || a.DividendYield < 0 {
		return fmt.Errorf("%w: %s: dividend yield must be a non-negative number", ErrInvalidInput, a.Ticker)
	}
	if !finite(a.PriceChangePercent) {
		return fmt.Errorf("%w: %s: price change must be a finite number", ErrInvalidInput, a.Ticker)
	}
	if a.Volume < 0 {
		return fmt.Errorf("%w: %s: volume must not be negative", ErrInvalidInput, a.Ticker)
	}
	return nil
}

// EffectiveKind returns the kind, treating an unset kind as FII
func (a AssetSnapshot) EffectiveKind() AssetKind {
	if a.Kind == "" {
		return AssetKindFII
	}
	return a.Kind
}

// ValidatePrices rejects price series containing NaN, Inf or negative values
func ValidatePrices(prices []float64) error {
	for i, p := range prices {
		if !finite(p) {
			return fmt.Errorf("%w: price at index %d is not a finite number", ErrInvalidInput, i)
		}
		if p < 0 {
			return fmt.Errorf("%w: price at index %d is negative", ErrInvalidInput, i)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
