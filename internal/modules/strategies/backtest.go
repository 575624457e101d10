package strategies

import (
	"context"
	"math"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/pkg/formulas"
)

// TradeAction is the side of a backtest trade
type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// BacktestTrade is one simulated trade
type BacktestTrade struct {
	Date     string      `json:"date" msgpack:"date"` // YYYY-MM-DD
	Ticker   string      `json:"ticker" msgpack:"ticker"`
	Action   TradeAction `json:"action" msgpack:"action"`
	Price    float64     `json:"price" msgpack:"price"`
	Quantity int         `json:"quantity" msgpack:"quantity"`
	PnL      float64     `json:"pnl" msgpack:"pnl"`
}

// BacktestResult summarizes a backtest run
type BacktestResult struct {
	Strategy         string          `json:"strategy" msgpack:"strategy"`
	Period           string          `json:"period" msgpack:"period"`
	TotalReturn      float64         `json:"total_return" msgpack:"total_return"`
	AnnualizedReturn float64         `json:"annualized_return" msgpack:"annualized_return"`
	Volatility       float64         `json:"volatility" msgpack:"volatility"`
	SharpeRatio      float64         `json:"sharpe_ratio" msgpack:"sharpe_ratio"`
	MaxDrawdown      float64         `json:"max_drawdown" msgpack:"max_drawdown"`
	WinRate          float64         `json:"win_rate" msgpack:"win_rate"`
	Trades           []BacktestTrade `json:"trades" msgpack:"trades"`
}

// Backtester runs a strategy over a set of assets. The engine ships no
// implementation; callers plug one in.
type Backtester interface {
	Run(ctx context.Context, strategy Strategy, assets []domain.AssetSnapshot, period string) (BacktestResult, error)
}

// PeriodsPerYear annualizes a total return measured over one monthly period
const PeriodsPerYear = 12

// SummarizeTrades computes the result statistics for a list of trades.
// Volatility is the population standard deviation of trade P&L and Sharpe
// is total return over volatility (0 when volatility is 0).
func SummarizeTrades(strategy Strategy, period string, trades []BacktestTrade) BacktestResult {
	pnls := make([]float64, len(trades))
	wins := 0
	for i, t := range trades {
		pnls[i] = t.PnL
		if t.PnL > 0 {
			wins++
		}
	}

	result := BacktestResult{
		Strategy: strategy.Name,
		Period:   period,
		Trades:   trades,
	}
	if result.Trades == nil {
		result.Trades = []BacktestTrade{}
	}
	if len(trades) == 0 {
		return result
	}

	result.TotalReturn = formulas.Sum(pnls)
	result.AnnualizedReturn = result.TotalReturn * PeriodsPerYear
	result.Volatility = formulas.PopStdDev(pnls)
	if result.Volatility != 0 && !math.IsNaN(result.Volatility) {
		result.SharpeRatio = result.TotalReturn / result.Volatility
	}
	result.MaxDrawdown = formulas.CalculateEquityDrawdown(pnls)
	result.WinRate = float64(wins) / float64(len(trades)) * 100

	return result
}
