// Package events provides the in-process event bus used to fan out engine results.
package events

import (
	"time"
)

// EventType represents different event types
type EventType string

const (
	SignalGenerated   EventType = "SIGNAL_GENERATED"
	AlertTriggered    EventType = "ALERT_TRIGGERED"
	ArbitrageDetected EventType = "ARBITRAGE_DETECTED"
	ScanCompleted     EventType = "SCAN_COMPLETED"
	SnapshotsUpdated  EventType = "SNAPSHOTS_UPDATED"
	StrategyToggled   EventType = "STRATEGY_TOGGLED"
	ErrorOccurred     EventType = "ERROR_OCCURRED"
)

// AllTypes lists every event type, used by subscribers that want everything
var AllTypes = []EventType{
	SignalGenerated,
	AlertTriggered,
	ArbitrageDetected,
	ScanCompleted,
	SnapshotsUpdated,
	StrategyToggled,
	ErrorOccurred,
}

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type" msgpack:"type"`
	Timestamp time.Time              `json:"timestamp" msgpack:"timestamp"`
	Data      map[string]interface{} `json:"data" msgpack:"data"`
	Module    string                 `json:"module" msgpack:"module"`
}
