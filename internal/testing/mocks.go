package testing

import (
	"strings"
	"sync"

	"github.com/aristath/fiisentinel/internal/domain"
)

// MockPriceHistory is an in-memory domain.PriceHistory
type MockPriceHistory struct {
	mu     sync.RWMutex
	closes map[string][]float64
	err    error
	calls  int
}

// NewMockPriceHistory creates an empty mock history
func NewMockPriceHistory() *MockPriceHistory {
	return &MockPriceHistory{closes: make(map[string][]float64)}
}

// SetCloses stores the chronological closes for ticker
func (m *MockPriceHistory) SetCloses(ticker string, closes []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes[strings.ToUpper(ticker)] = closes
}

// SetError makes every subsequent GetCloses call fail with err
func (m *MockPriceHistory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times GetCloses was called
func (m *MockPriceHistory) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// GetCloses returns up to limit most recent closes, oldest first
func (m *MockPriceHistory) GetCloses(ticker string, limit int) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return nil, m.err
	}

	closes := m.closes[strings.ToUpper(ticker)]
	if limit > 0 && len(closes) > limit {
		closes = closes[len(closes)-limit:]
	}
	out := make([]float64, len(closes))
	copy(out, closes)
	return out, nil
}

// MockSnapshotSource is a fixed domain.SnapshotSource
type MockSnapshotSource struct {
	Snapshots []domain.AssetSnapshot
}

// All returns a copy of the configured snapshots
func (m *MockSnapshotSource) All() []domain.AssetSnapshot {
	out := make([]domain.AssetSnapshot, len(m.Snapshots))
	copy(out, m.Snapshots)
	return out
}

var _ domain.PriceHistory = (*MockPriceHistory)(nil)
var _ domain.SnapshotSource = (*MockSnapshotSource)(nil)
