package domain

import (
	"fmt"

	"github.com/aristath/fiisentinel/pkg/formulas"
)

// YieldTrend is the direction the forward yield is moving
type YieldTrend string

const (
	YieldTrendIncreasing YieldTrend = "INCREASING"
	YieldTrendDecreasing YieldTrend = "DECREASING"
	YieldTrendStable     YieldTrend = "STABLE"
)

// MovingAverages groups the moving averages the signal rules look at
type MovingAverages struct {
	SMA20 float64 `json:"sma20" msgpack:"sma20"`
	SMA50 float64 `json:"sma50" msgpack:"sma50"`
	EMA12 float64 `json:"ema12" msgpack:"ema12"`
	EMA26 float64 `json:"ema26" msgpack:"ema26"`
}

// YieldIndicators describes the current yield against its recent averages
type YieldIndicators struct {
	Current   float64    `json:"current" msgpack:"current"`
	Average3m float64    `json:"average_3m" msgpack:"average_3m"`
	Average6m float64    `json:"average_6m" msgpack:"average_6m"`
	Trend     YieldTrend `json:"trend" msgpack:"trend"`
}

// TechnicalIndicators is derived fresh per call from a snapshot and its price series
type TechnicalIndicators struct {
	RSI            float64                 `json:"rsi" msgpack:"rsi"`
	MACD           formulas.MACD           `json:"macd" msgpack:"macd"`
	MovingAverages MovingAverages          `json:"moving_averages" msgpack:"moving_averages"`
	BollingerBands formulas.BollingerBands `json:"bollinger_bands" msgpack:"bollinger_bands"`
	Yield          YieldIndicators         `json:"yield" msgpack:"yield"`
}

// Validate rejects indicator sets carrying NaN or infinite values
func (t TechnicalIndicators) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"rsi", t.RSI},
		{"macd.value", t.MACD.Value},
		{"macd.signal", t.MACD.Signal},
		{"macd.histogram", t.MACD.Histogram},
		{"moving_averages.sma20", t.MovingAverages.SMA20},
		{"moving_averages.sma50", t.MovingAverages.SMA50},
		{"moving_averages.ema12", t.MovingAverages.EMA12},
		{"moving_averages.ema26", t.MovingAverages.EMA26},
		{"bollinger_bands.upper", t.BollingerBands.Upper},
		{"bollinger_bands.middle", t.BollingerBands.Middle},
		{"bollinger_bands.lower", t.BollingerBands.Lower},
		{"yield.current", t.Yield.Current},
		{"yield.average_3m", t.Yield.Average3m},
		{"yield.average_6m", t.Yield.Average6m},
	}
	for _, f := range fields {
		if !finite(f.value) {
			return fmt.Errorf("%w: indicator %s is not a finite number", ErrInvalidInput, f.name)
		}
	}
	return nil
}

// SignalType is the recommended action
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// SignalStrength grades how decisive a signal is
type SignalStrength string

const (
	StrengthWeak     SignalStrength = "WEAK"
	StrengthModerate SignalStrength = "MODERATE"
	StrengthStrong   SignalStrength = "STRONG"
)

// TradingSignal is the consolidated output of the signal engine
type TradingSignal struct {
	Type        SignalType     `json:"type" msgpack:"type"`
	Strength    SignalStrength `json:"strength" msgpack:"strength"`
	Confidence  int            `json:"confidence" msgpack:"confidence"`
	Reasons     []string       `json:"reasons" msgpack:"reasons"`
	TargetPrice *float64       `json:"target_price,omitempty" msgpack:"target_price,omitempty"`
	StopLoss    *float64       `json:"stop_loss,omitempty" msgpack:"stop_loss,omitempty"`
}

// IsActionable reports whether the signal recommends a trade
func (s TradingSignal) IsActionable() bool {
	return s.Type == SignalBuy || s.Type == SignalSell
}
