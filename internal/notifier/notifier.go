// Package notifier delivers triggered alerts and strong signals to the user.
package notifier

import (
	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/modules/alerts"
	"github.com/rs/zerolog"
)

// Notifier is implemented by every delivery channel
type Notifier interface {
	NotifyAlert(alert alerts.Alert) error
	NotifySignal(ticker string, signal domain.TradingSignal) error
}

// LogNotifier writes notifications to the log. Used when no chat is configured.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notifier").Logger()}
}

// NotifyAlert logs a triggered alert
func (n *LogNotifier) NotifyAlert(alert alerts.Alert) error {
	n.log.Info().
		Str("alert_id", alert.ID).
		Str("ticker", alert.Ticker).
		Str("type", string(alert.Type)).
		Str("condition", alert.Condition).
		Float64("target", alert.TargetValue).
		Float64("value", alert.CurrentValue).
		Msg("Alert notification")
	return nil
}

// NotifySignal logs an actionable signal
func (n *LogNotifier) NotifySignal(ticker string, signal domain.TradingSignal) error {
	n.log.Info().
		Str("ticker", ticker).
		Str("signal", string(signal.Type)).
		Str("strength", string(signal.Strength)).
		Int("confidence", signal.Confidence).
		Strs("reasons", signal.Reasons).
		Msg("Signal notification")
	return nil
}
