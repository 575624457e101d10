package market

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/events"
	"github.com/aristath/fiisentinel/internal/modules/alerts"
	"github.com/aristath/fiisentinel/internal/modules/arbitrage"
	"github.com/aristath/fiisentinel/internal/modules/indicators"
	"github.com/aristath/fiisentinel/internal/notifier"
	"github.com/aristath/fiisentinel/internal/scanner"
	"github.com/aristath/fiisentinel/internal/utils"
	"github.com/rs/zerolog"
)

// Recorder persists the daily observations carried by a snapshot
type Recorder interface {
	AppendClose(ticker string, date time.Time, closePrice float64, volume int64) error
	AppendYield(ticker string, date time.Time, dividendYield float64) error
}

// ScanReport is the outcome of one full market scan
type ScanReport struct {
	StartedAt       time.Time               `json:"started_at" msgpack:"started_at"`
	DurationMs      int64                   `json:"duration_ms" msgpack:"duration_ms"`
	Results         []scanner.Result        `json:"results" msgpack:"results"`
	Opportunities   []arbitrage.Opportunity `json:"opportunities" msgpack:"opportunities"`
	TriggeredAlerts []alerts.Alert          `json:"triggered_alerts" msgpack:"triggered_alerts"`
}

// Service ingests snapshots and scans the tracked market
type Service struct {
	store    *Store
	history  domain.PriceHistory
	recorder Recorder
	pool     *scanner.WorkerPool
	detector *arbitrage.Detector
	book     *alerts.Book
	events   *events.Manager
	notifier notifier.Notifier
	now      func() time.Time
	log      zerolog.Logger

	scanMu sync.Mutex
	lastMu sync.RWMutex
	last   *ScanReport
}

// NewService creates the market service
func NewService(
	store *Store,
	history domain.PriceHistory,
	recorder Recorder,
	pool *scanner.WorkerPool,
	detector *arbitrage.Detector,
	book *alerts.Book,
	eventManager *events.Manager,
	n notifier.Notifier,
	log zerolog.Logger,
) *Service {
	return &Service{
		store:    store,
		history:  history,
		recorder: recorder,
		pool:     pool,
		detector: detector,
		book:     book,
		events:   eventManager,
		notifier: n,
		now:      time.Now,
		log:      log.With().Str("service", "market").Logger(),
	}
}

// Store returns the snapshot store
func (s *Service) Store() *Store {
	return s.store
}

// PushSnapshots stores the latest snapshots and records today's close and yield
func (s *Service) PushSnapshots(snapshots []domain.AssetSnapshot) error {
	if err := s.store.Upsert(snapshots); err != nil {
		return err
	}

	today := s.now()
	for _, snap := range snapshots {
		ticker := snap.Ticker
		if err := s.recorder.AppendClose(ticker, today, snap.CurrentPrice, snap.Volume); err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to record close")
			s.events.EmitError("market", err, map[string]interface{}{"ticker": ticker, "operation": "record_close"})
		}
		if snap.EffectiveKind().PaysDistributions() {
			if err := s.recorder.AppendYield(ticker, today, snap.DividendYield); err != nil {
				s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to record yield")
				s.events.EmitError("market", err, map[string]interface{}{"ticker": ticker, "operation": "record_yield"})
			}
		}
	}

	s.events.EmitTyped("market", &events.SnapshotsUpdatedData{Count: len(snapshots)})
	return nil
}

// Scan computes signals for every tracked asset, looks for arbitrage and
// evaluates the alert book. Only one scan runs at a time.
func (s *Service) Scan(ctx context.Context) (ScanReport, error) {
	if err := ctx.Err(); err != nil {
		return ScanReport{}, err
	}

	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	defer utils.OperationTimer("market_scan", s.log)()

	started := s.now()
	assets := s.store.All()

	inputs := make([]scanner.Input, 0, len(assets))
	for _, asset := range assets {
		closes, err := s.history.GetCloses(asset.Ticker, indicators.LookbackWindow)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", asset.Ticker).Msg("Failed to load price history, scanning without it")
			closes = nil
		}
		inputs = append(inputs, scanner.Input{Asset: asset, Prices: closes})
	}

	if err := ctx.Err(); err != nil {
		return ScanReport{}, err
	}

	report := ScanReport{
		StartedAt:       started,
		Results:         s.pool.ScanBatch(inputs),
		Opportunities:   s.detector.FindOpportunities(assets),
		TriggeredAlerts: s.book.Evaluate(assets),
	}
	report.DurationMs = s.now().Sub(started).Milliseconds()

	s.publish(report)

	s.lastMu.Lock()
	s.last = &report
	s.lastMu.Unlock()

	return report, nil
}

// LastScan returns the most recent scan report
func (s *Service) LastScan() (ScanReport, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()

	if s.last == nil {
		return ScanReport{}, false
	}
	return *s.last, true
}

func (s *Service) publish(report ScanReport) {
	failed, actionable := 0, 0
	for _, r := range report.Results {
		if !r.OK() {
			failed++
			s.log.Warn().Str("ticker", r.Ticker).Str("error", r.Error).Msg("Asset scan failed")
			continue
		}
		if !r.Signal.IsActionable() {
			continue
		}
		actionable++
		s.events.EmitTyped("signals", &events.SignalGeneratedData{
			Ticker:     r.Ticker,
			Type:       string(r.Signal.Type),
			Strength:   string(r.Signal.Strength),
			Confidence: r.Signal.Confidence,
			Reasons:    r.Signal.Reasons,
		})
		if r.Signal.Strength == domain.StrengthStrong {
			if err := s.notifier.NotifySignal(r.Ticker, *r.Signal); err != nil {
				s.log.Error().Err(err).Str("ticker", r.Ticker).Msg("Failed to send signal notification")
			}
		}
	}

	if len(report.Opportunities) > 0 {
		tickers := make([]string, len(report.Opportunities))
		for i, o := range report.Opportunities {
			tickers[i] = o.Ticker
		}
		s.events.EmitTyped("arbitrage", &events.ArbitrageDetectedData{
			Count:   len(report.Opportunities),
			Tickers: tickers,
		})
	}

	s.PublishAlerts(report.TriggeredAlerts)

	s.events.EmitTyped("scanner", &events.ScanCompletedData{
		Scanned:    len(report.Results),
		Failed:     failed,
		Actionable: actionable,
		DurationMs: report.DurationMs,
	})

	s.log.Info().
		Int("scanned", len(report.Results)).
		Int("failed", failed).
		Int("actionable", actionable).
		Int("opportunities", len(report.Opportunities)).
		Int("alerts", len(report.TriggeredAlerts)).
		Int64("duration_ms", report.DurationMs).
		Msg("Market scan completed")
}

// PublishAlerts emits an AlertTriggered event and sends a notification for
// every newly triggered alert
func (s *Service) PublishAlerts(triggered []alerts.Alert) {
	for _, a := range triggered {
		s.events.EmitTyped("alerts", &events.AlertTriggeredData{
			AlertID:      a.ID,
			Ticker:       a.Ticker,
			Type:         string(a.Type),
			Condition:    a.Condition,
			TargetValue:  a.TargetValue,
			CurrentValue: a.CurrentValue,
		})
		if err := s.notifier.NotifyAlert(a); err != nil {
			s.log.Error().Err(err).Str("alert_id", a.ID).Msg("Failed to send alert notification")
		}
	}
}
