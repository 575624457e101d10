// Package market keeps the latest asset snapshots and runs scheduled scans over them.
package market

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aristath/fiisentinel/internal/domain"
)

// Store holds the latest snapshot per ticker in memory
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]domain.AssetSnapshot
}

// NewStore creates an empty snapshot store
func NewStore() *Store {
	return &Store{snapshots: make(map[string]domain.AssetSnapshot)}
}

// Upsert validates every snapshot and stores the batch. Nothing is stored
// when any snapshot is invalid.
func (s *Store) Upsert(snapshots []domain.AssetSnapshot) error {
	normalized := make([]domain.AssetSnapshot, len(snapshots))
	for i, snap := range snapshots {
		if err := snap.Validate(); err != nil {
			return fmt.Errorf("snapshot %d: %w", i, err)
		}
		snap.Ticker = strings.ToUpper(strings.TrimSpace(snap.Ticker))
		snap.Kind = snap.EffectiveKind()
		normalized[i] = snap
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range normalized {
		s.snapshots[snap.Ticker] = snap
	}
	return nil
}

// Get returns the snapshot for one ticker
func (s *Store) Get(ticker string) (domain.AssetSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return domain.AssetSnapshot{}, fmt.Errorf("snapshot %s: %w", ticker, domain.ErrNotFound)
	}
	return snap, nil
}

// All returns every stored snapshot ordered by ticker
func (s *Store) All() []domain.AssetSnapshot {
	s.mu.RLock()
	out := make([]domain.AssetSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// Len returns the number of tracked tickers
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
