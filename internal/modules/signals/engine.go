// Package signals turns an asset and its technical indicators into one
// consolidated trading signal by weighted voting over heuristic rules.
package signals

import (
	"fmt"
	"math"

	"github.com/aristath/fiisentinel/internal/domain"
)

const (
	// ActionThreshold is the net weight magnitude a vote must exceed to act
	ActionThreshold = 0.5
	// ModerateThreshold and StrongThreshold grade an actionable signal
	ModerateThreshold = 0.8
	StrongThreshold   = 1.5

	// MaxConfidence caps the reported confidence
	MaxConfidence = 95
	// NeutralConfidence is reported when no rule fires
	NeutralConfidence = 50

	// NoSignalReason is the only reason given when no rule fires
	NoSignalReason = "No clear signals detected"

	buyTargetFactor  = 1.15
	buyStopFactor    = 0.92
	sellTargetFactor = 0.90
	sellStopFactor   = 1.05
)

// Vote is the contribution of one fired rule
type Vote struct {
	Direction domain.SignalType
	Weight    float64
	Reason    string
}

// Rule is one heuristic. Condition must be a pure function of its inputs.
type Rule struct {
	Name      string
	Direction domain.SignalType
	Weight    float64
	Reason    string
	Condition func(asset domain.AssetSnapshot, ind domain.TechnicalIndicators) bool
}

// DefaultRules returns the rule table in evaluation order
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "rsi_oversold", Direction: domain.SignalBuy, Weight: 0.8, Reason: "RSI oversold (<30)",
			Condition: func(_ domain.AssetSnapshot, ind domain.TechnicalIndicators) bool {
				return ind.RSI < 30
			},
		},
		{
			Name: "rsi_overbought", Direction: domain.SignalSell, Weight: 0.8, Reason: "RSI overbought (>70)",
			Condition: func(_ domain.AssetSnapshot, ind domain.TechnicalIndicators) bool {
				return ind.RSI > 70
			},
		},
		{
			Name: "macd_bullish", Direction: domain.SignalBuy, Weight: 0.7, Reason: "MACD bullish crossover",
			Condition: func(_ domain.AssetSnapshot, ind domain.TechnicalIndicators) bool {
				return ind.MACD.Value > ind.MACD.Signal && ind.MACD.Histogram > 0
			},
		},
		{
			Name: "macd_bearish", Direction: domain.SignalSell, Weight: 0.7, Reason: "MACD bearish crossover",
			Condition: func(_ domain.AssetSnapshot, ind domain.TechnicalIndicators) bool {
				return ind.MACD.Value < ind.MACD.Signal && ind.MACD.Histogram < 0
			},
		},
		{
			Name: "uptrend", Direction: domain.SignalBuy, Weight: 0.6, Reason: "Price above SMA20 and SMA20 > SMA50",
			Condition: func(asset domain.AssetSnapshot, ind domain.TechnicalIndicators) bool {
				return asset.CurrentPrice > ind.MovingAverages.SMA20 &&
					ind.MovingAverages.SMA20 > ind.MovingAverages.SMA50
			},
		},
		{
			Name: "yield_spike", Direction: domain.SignalBuy, Weight: 0.9, Reason: "Yield 20% above 6-month average",
			Condition: func(_ domain.AssetSnapshot, ind domain.TechnicalIndicators) bool {
				return ind.Yield.Current > ind.Yield.Average6m*1.2
			},
		},
		{
			Name: "below_lower_band", Direction: domain.SignalBuy, Weight: 0.7, Reason: "Price below lower Bollinger Band",
			Condition: func(asset domain.AssetSnapshot, ind domain.TechnicalIndicators) bool {
				return asset.CurrentPrice < ind.BollingerBands.Lower
			},
		},
		{
			Name: "above_upper_band", Direction: domain.SignalSell, Weight: 0.7, Reason: "Price above upper Bollinger Band",
			Condition: func(asset domain.AssetSnapshot, ind domain.TechnicalIndicators) bool {
				return asset.CurrentPrice > ind.BollingerBands.Upper
			},
		},
	}
}

// Engine evaluates a fixed rule table. It has no mutable state.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the default rule table
func NewEngine() *Engine {
	return &Engine{rules: DefaultRules()}
}

// Rules returns a copy of the engine's rule table
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Votes evaluates every rule independently and returns the fired ones in order
func (e *Engine) Votes(asset domain.AssetSnapshot, ind domain.TechnicalIndicators) []Vote {
	var votes []Vote
	for _, rule := range e.rules {
		if rule.Condition(asset, ind) {
			votes = append(votes, Vote{
				Direction: rule.Direction,
				Weight:    rule.Weight,
				Reason:    rule.Reason,
			})
		}
	}
	return votes
}

// GenerateSignal evaluates the rules and consolidates the fired votes
func (e *Engine) GenerateSignal(asset domain.AssetSnapshot, ind domain.TechnicalIndicators) (domain.TradingSignal, error) {
	if err := asset.Validate(); err != nil {
		return domain.TradingSignal{}, err
	}
	if err := ind.Validate(); err != nil {
		return domain.TradingSignal{}, fmt.Errorf("%s: %w", asset.Ticker, err)
	}
	return Consolidate(e.Votes(asset, ind), asset.CurrentPrice), nil
}

// NetWeight is the sum of BUY weights minus the sum of SELL weights
func NetWeight(votes []Vote) float64 {
	var buy, sell float64
	for _, v := range votes {
		switch v.Direction {
		case domain.SignalBuy:
			buy += v.Weight
		case domain.SignalSell:
			sell += v.Weight
		}
	}
	return buy - sell
}

// Consolidate folds votes into one signal priced off currentPrice
func Consolidate(votes []Vote, currentPrice float64) domain.TradingSignal {
	if len(votes) == 0 {
		return domain.TradingSignal{
			Type:       domain.SignalHold,
			Strength:   domain.StrengthWeak,
			Confidence: NeutralConfidence,
			Reasons:    []string{NoSignalReason},
		}
	}

	net := NetWeight(votes)
	magnitude := math.Abs(net)

	signal := domain.TradingSignal{
		Type:       domain.SignalHold,
		Strength:   domain.StrengthWeak,
		Confidence: int(math.Round(math.Min(MaxConfidence, magnitude*20+50))),
		Reasons:    make([]string, 0, len(votes)),
	}
	for _, v := range votes {
		signal.Reasons = append(signal.Reasons, v.Reason)
	}

	if magnitude > ActionThreshold {
		signal.Type = domain.SignalBuy
		if net < 0 {
			signal.Type = domain.SignalSell
		}

		switch {
		case magnitude > StrongThreshold:
			signal.Strength = domain.StrengthStrong
		case magnitude > ModerateThreshold:
			signal.Strength = domain.StrengthModerate
		}
	}

	switch signal.Type {
	case domain.SignalBuy:
		signal.TargetPrice = price(currentPrice * buyTargetFactor)
		signal.StopLoss = price(currentPrice * buyStopFactor)
	case domain.SignalSell:
		signal.TargetPrice = price(currentPrice * sellTargetFactor)
		signal.StopLoss = price(currentPrice * sellStopFactor)
	case domain.SignalHold:
	}

	return signal
}

func price(v float64) *float64 {
	return &v
}
