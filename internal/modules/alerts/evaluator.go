// Package alerts evaluates user defined threshold alerts against asset snapshots.
package alerts

import (
	"time"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/rs/zerolog"
)

// TechnicalCondition decides TECHNICAL alerts. It returns the observed value
// and whether the alert fires. No implementation ships with the engine.
type TechnicalCondition interface {
	Check(alert Alert, asset domain.AssetSnapshot) (value float64, fired bool)
}

// Evaluator matches alerts against snapshots. It never mutates its inputs.
type Evaluator struct {
	technical TechnicalCondition
	now       func() time.Time
	log       zerolog.Logger
}

// EvaluatorOption configures an Evaluator
type EvaluatorOption func(*Evaluator)

// WithTechnicalCondition plugs in the rule used for TECHNICAL alerts
func WithTechnicalCondition(tc TechnicalCondition) EvaluatorOption {
	return func(e *Evaluator) {
		e.technical = tc
	}
}

// WithClock overrides the clock used to stamp TriggeredAt
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.now = now
	}
}

// NewEvaluator creates a new alert evaluator
func NewEvaluator(log zerolog.Logger, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		now: time.Now,
		log: log.With().Str("service", "alerts").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns a copy of alerts with trigger state applied, plus the
// alerts that triggered during this call. Already triggered alerts and
// alerts whose ticker is missing from assets are passed through unchanged.
// When assets repeats a ticker only its first snapshot is considered.
func (e *Evaluator) Evaluate(assets []domain.AssetSnapshot, alerts []Alert) (updated []Alert, triggered []Alert) {
	byTicker := make(map[string]domain.AssetSnapshot, len(assets))
	for _, a := range assets {
		// first snapshot for a ticker wins
		if _, dup := byTicker[a.Ticker]; !dup {
			byTicker[a.Ticker] = a
		}
	}

	updated = make([]Alert, len(alerts))
	triggered = make([]Alert, 0)

	for i, alert := range alerts {
		updated[i] = alert
		if alert.Triggered {
			continue
		}

		asset, ok := byTicker[alert.Ticker]
		if !ok {
			continue
		}

		value, fired := e.check(alert, asset)
		if !fired {
			continue
		}

		at := e.now()
		alert.Triggered = true
		alert.TriggeredAt = &at
		alert.CurrentValue = value
		updated[i] = alert
		triggered = append(triggered, alert)

		e.log.Info().
			Str("alert_id", alert.ID).
			Str("ticker", alert.Ticker).
			Str("type", string(alert.Type)).
			Float64("target", alert.TargetValue).
			Float64("value", value).
			Msg("Alert triggered")
	}

	return updated, triggered
}

func (e *Evaluator) check(alert Alert, asset domain.AssetSnapshot) (float64, bool) {
	if alert.Type == AlertTypeTechnical {
		if e.technical == nil {
			return 0, false
		}
		return e.technical.Check(alert, asset)
	}

	value, ok := metricValue(alert.Type, asset)
	if !ok {
		return 0, false
	}

	if alert.Above() {
		return value, value >= alert.TargetValue
	}
	return value, value <= alert.TargetValue
}
