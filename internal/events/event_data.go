package events

// EventData is implemented by all typed event payloads
type EventData interface {
	EventType() EventType
}

// SignalGeneratedData contains data for SignalGenerated events
type SignalGeneratedData struct {
	Ticker     string   `json:"ticker"`
	Type       string   `json:"type"`
	Strength   string   `json:"strength"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// EventType returns the event type for SignalGeneratedData
func (d *SignalGeneratedData) EventType() EventType {
	return SignalGenerated
}

// AlertTriggeredData contains data for AlertTriggered events
type AlertTriggeredData struct {
	AlertID      string  `json:"alert_id"`
	Ticker       string  `json:"ticker"`
	Type         string  `json:"type"`
	Condition    string  `json:"condition"`
	TargetValue  float64 `json:"target_value"`
	CurrentValue float64 `json:"current_value"`
}

// EventType returns the event type for AlertTriggeredData
func (d *AlertTriggeredData) EventType() EventType {
	return AlertTriggered
}

// ArbitrageDetectedData contains data for ArbitrageDetected events
type ArbitrageDetectedData struct {
	Count   int      `json:"count"`
	Tickers []string `json:"tickers"`
}

// EventType returns the event type for ArbitrageDetectedData
func (d *ArbitrageDetectedData) EventType() EventType {
	return ArbitrageDetected
}

// ScanCompletedData contains data for ScanCompleted events
type ScanCompletedData struct {
	Scanned    int   `json:"scanned"`
	Failed     int   `json:"failed"`
	Actionable int   `json:"actionable"`
	DurationMs int64 `json:"duration_ms"`
}

// EventType returns the event type for ScanCompletedData
func (d *ScanCompletedData) EventType() EventType {
	return ScanCompleted
}

// SnapshotsUpdatedData contains data for SnapshotsUpdated events
type SnapshotsUpdatedData struct {
	Count int `json:"count"`
}

// EventType returns the event type for SnapshotsUpdatedData
func (d *SnapshotsUpdatedData) EventType() EventType {
	return SnapshotsUpdated
}

// StrategyToggledData contains data for StrategyToggled events
type StrategyToggledData struct {
	StrategyID string `json:"strategy_id"`
	Active     bool   `json:"active"`
}

// EventType returns the event type for StrategyToggledData
func (d *StrategyToggledData) EventType() EventType {
	return StrategyToggled
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}
