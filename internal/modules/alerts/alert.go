package alerts

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aristath/fiisentinel/internal/domain"
)

// AlertType selects which metric of an asset an alert watches
type AlertType string

const (
	AlertTypePrice     AlertType = "PRICE"
	AlertTypeYield     AlertType = "YIELD"
	AlertTypeVolume    AlertType = "VOLUME"
	AlertTypeTechnical AlertType = "TECHNICAL"
)

// Valid reports whether the alert type is known
func (t AlertType) Valid() bool {
	switch t {
	case AlertTypePrice, AlertTypeYield, AlertTypeVolume, AlertTypeTechnical:
		return true
	}
	return false
}

// Alert is a one-shot threshold condition on a single ticker.
// Once Triggered is set it never goes back to false.
type Alert struct {
	ID           string     `json:"id" msgpack:"id"`
	Ticker       string     `json:"ticker" msgpack:"ticker"`
	Type         AlertType  `json:"type" msgpack:"type"`
	Condition    string     `json:"condition" msgpack:"condition"`
	TargetValue  float64    `json:"target_value" msgpack:"target_value"`
	CurrentValue float64    `json:"current_value" msgpack:"current_value"`
	Triggered    bool       `json:"triggered" msgpack:"triggered"`
	CreatedAt    time.Time  `json:"created_at" msgpack:"created_at"`
	TriggeredAt  *time.Time `json:"triggered_at,omitempty" msgpack:"triggered_at,omitempty"`
}

// Above reports whether the condition fires on values at or above the target.
// The "above" keyword is matched case-sensitively; any other condition,
// "ABOVE" included, fires at or below the target.
func (a Alert) Above() bool {
	return strings.Contains(a.Condition, "above")
}

// Validate checks the user supplied fields of an alert
func (a Alert) Validate() error {
	if strings.TrimSpace(a.Ticker) == "" {
		return fmt.Errorf("%w: alert ticker is required", domain.ErrInvalidInput)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown alert type %q", domain.ErrInvalidInput, a.Type)
	}
	if math.IsNaN(a.TargetValue) || math.IsInf(a.TargetValue, 0) {
		return fmt.Errorf("%w: alert target value must be a finite number", domain.ErrInvalidInput)
	}
	return nil
}

// metricValue returns the asset field watched by a PRICE, YIELD or VOLUME alert
func metricValue(t AlertType, asset domain.AssetSnapshot) (float64, bool) {
	switch t {
	case AlertTypePrice:
		return asset.CurrentPrice, true
	case AlertTypeYield:
		return asset.DividendYield, true
	case AlertTypeVolume:
		return float64(asset.Volume), true
	case AlertTypeTechnical:
		return 0, false
	}
	return 0, false
}
