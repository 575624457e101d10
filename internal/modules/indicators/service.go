// Package indicators computes the technical indicator set for an asset.
package indicators

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/pkg/formulas"
	"github.com/rs/zerolog"
)

const (
	// LookbackWindow is how many trailing closes feed the indicators
	LookbackWindow = 50

	RSIPeriod            = 14
	BollingerPeriod      = 20
	BollingerStdDevWidth = 2.0
	ShortSMAPeriod       = 20
	LongSMAPeriod        = 50
	FastEMAPeriod        = 12
	SlowEMAPeriod        = 26
)

// Service computes TechnicalIndicators. It holds no per-asset state and is
// safe for concurrent use.
type Service struct {
	yieldHistory YieldHistory
	rngMu        sync.Mutex
	rng          *rand.Rand
	log          zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithYieldHistory plugs in a real historical-yield source
func WithYieldHistory(h YieldHistory) Option {
	return func(s *Service) {
		s.yieldHistory = h
	}
}

// WithRandSource replaces the source used to synthesize yield averages
func WithRandSource(src rand.Source) Option {
	return func(s *Service) {
		s.rng = rand.New(src)
	}
}

// NewService creates a new indicators service
func NewService(log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		log: log.With().Str("service", "indicators").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeIndicators derives the full indicator set from a snapshot and its
// chronological price series. Short or empty series degrade to neutral values.
func (s *Service) ComputeIndicators(asset domain.AssetSnapshot, prices []float64) (domain.TechnicalIndicators, error) {
	if err := asset.Validate(); err != nil {
		return domain.TechnicalIndicators{}, err
	}
	if err := domain.ValidatePrices(prices); err != nil {
		return domain.TechnicalIndicators{}, fmt.Errorf("%s: %w", asset.Ticker, err)
	}

	window := prices
	if len(window) > LookbackWindow {
		window = window[len(window)-LookbackWindow:]
	}

	if len(window) < RSIPeriod+1 {
		s.log.Debug().
			Str("ticker", asset.Ticker).
			Int("closes", len(window)).
			Msg("Short price history, indicators degrade to neutral values")
	}

	return domain.TechnicalIndicators{
		RSI:  formulas.CalculateRSI(window, RSIPeriod),
		MACD: formulas.CalculateMACD(window),
		MovingAverages: domain.MovingAverages{
			SMA20: formulas.CalculateSMA(window, ShortSMAPeriod),
			SMA50: formulas.CalculateSMA(window, LongSMAPeriod),
			EMA12: formulas.CalculateEMA(window, FastEMAPeriod),
			EMA26: formulas.CalculateEMA(window, SlowEMAPeriod),
		},
		BollingerBands: formulas.CalculateBollingerBands(window, BollingerPeriod, BollingerStdDevWidth),
		Yield:          s.AnalyzeYield(asset),
	}, nil
}
