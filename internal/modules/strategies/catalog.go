// Package strategies holds the fixed catalog of trading strategies and the
// statistics used to summarize a backtest run.
package strategies

import (
	"fmt"
	"sync"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/rs/zerolog"
)

// StrategyType classifies strategies by their trading approach
type StrategyType string

const (
	StrategyTypeYieldHunting  StrategyType = "YIELD_HUNTING"
	StrategyTypeMomentum      StrategyType = "MOMENTUM"
	StrategyTypeArbitrage     StrategyType = "ARBITRAGE"
	StrategyTypeMeanReversion StrategyType = "MEAN_REVERSION"
)

// Performance is a precomputed performance snapshot
type Performance struct {
	TotalReturn float64 `json:"total_return" msgpack:"total_return"`
	WinRate     float64 `json:"win_rate" msgpack:"win_rate"`
	SharpeRatio float64 `json:"sharpe_ratio" msgpack:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown" msgpack:"max_drawdown"`
}

// Strategy describes one catalog entry
type Strategy struct {
	ID          string             `json:"id" msgpack:"id"`
	Name        string             `json:"name" msgpack:"name"`
	Description string             `json:"description" msgpack:"description"`
	Type        StrategyType       `json:"type" msgpack:"type"`
	Parameters  map[string]float64 `json:"parameters" msgpack:"parameters"`
	Active      bool               `json:"active" msgpack:"active"`
	Performance Performance        `json:"performance" msgpack:"performance"`
}

// Strategy IDs
const (
	IDYieldHunter     = "yield-hunter"
	IDMomentumTrader  = "momentum-trader"
	IDArbitrageMaster = "arbitrage-master"
	IDMeanReversion   = "mean-reversion"
)

// ListStrategies returns the four built-in strategies with their default
// active flags. Each call returns fresh values.
func ListStrategies() []Strategy {
	return []Strategy{
		{
			ID:          IDYieldHunter,
			Name:        "Yield Hunter Pro",
			Description: "Finds funds with exceptionally high yields and solid fundamentals",
			Type:        StrategyTypeYieldHunting,
			Parameters: map[string]float64{
				"minYield":   8.0,
				"maxPremium": 5.0,
				"minVolume":  1000000,
			},
			Active:      true,
			Performance: Performance{TotalReturn: 18.5, WinRate: 72.3, SharpeRatio: 1.45, MaxDrawdown: 8.2},
		},
		{
			ID:          IDMomentumTrader,
			Name:        "Momentum Trader AI",
			Description: "Follows trends using multiple technical indicators",
			Type:        StrategyTypeMomentum,
			Parameters: map[string]float64{
				"rsiPeriod": 14,
				"macdFast":  12,
				"macdSlow":  26,
				"stopLoss":  5.0,
			},
			Active:      true,
			Performance: Performance{TotalReturn: 24.1, WinRate: 68.7, SharpeRatio: 1.62, MaxDrawdown: 12.1},
		},
		{
			ID:          IDArbitrageMaster,
			Name:        "Arbitrage Master",
			Description: "Exploits gaps between market price and net asset value",
			Type:        StrategyTypeArbitrage,
			Parameters: map[string]float64{
				"minDiscount":   3.0,
				"maxPremium":    2.0,
				"holdingPeriod": 30,
			},
			Active:      false,
			Performance: Performance{TotalReturn: 15.8, WinRate: 85.2, SharpeRatio: 2.1, MaxDrawdown: 4.5},
		},
		{
			ID:          IDMeanReversion,
			Name:        "Mean Reversion Expert",
			Description: "Buys dips and sells rallies based on reversion to the mean",
			Type:        StrategyTypeMeanReversion,
			Parameters: map[string]float64{
				"bbPeriod":      20,
				"bbStdDev":      2,
				"rsiOversold":   30,
				"rsiOverbought": 70,
			},
			Active:      true,
			Performance: Performance{TotalReturn: 21.3, WinRate: 74.6, SharpeRatio: 1.78, MaxDrawdown: 9.8},
		},
	}
}

// Catalog keeps the caller-controlled active flags on top of the built-in list
type Catalog struct {
	mu     sync.RWMutex
	active map[string]bool
	log    zerolog.Logger
}

// NewCatalog creates a catalog seeded with the default active flags
func NewCatalog(log zerolog.Logger) *Catalog {
	active := make(map[string]bool)
	for _, s := range ListStrategies() {
		active[s.ID] = s.Active
	}
	return &Catalog{
		active: active,
		log:    log.With().Str("service", "strategies").Logger(),
	}
}

// List returns all strategies with the current active flags
func (c *Catalog) List() []Strategy {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := ListStrategies()
	for i := range list {
		list[i].Active = c.active[list[i].ID]
	}
	return list
}

// Get returns a single strategy by ID
func (c *Catalog) Get(id string) (Strategy, error) {
	for _, s := range c.List() {
		if s.ID == id {
			return s, nil
		}
	}
	return Strategy{}, fmt.Errorf("strategy %s: %w", id, domain.ErrNotFound)
}

// SetActive toggles a strategy and returns its updated value
func (c *Catalog) SetActive(id string, active bool) (Strategy, error) {
	c.mu.Lock()
	if _, ok := c.active[id]; !ok {
		c.mu.Unlock()
		return Strategy{}, fmt.Errorf("strategy %s: %w", id, domain.ErrNotFound)
	}
	c.active[id] = active
	c.mu.Unlock()

	c.log.Info().Str("strategy", id).Bool("active", active).Msg("Strategy toggled")
	return c.Get(id)
}
