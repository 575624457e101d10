package alerts

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Book is the in-memory alert store. All writes go through its mutex so
// the one-shot trigger holds under concurrent Evaluate calls.
type Book struct {
	mu        sync.Mutex
	alerts    map[string]Alert
	evaluator *Evaluator
	now       func() time.Time
	log       zerolog.Logger
}

// NewBook creates an empty alert book
func NewBook(evaluator *Evaluator, log zerolog.Logger) *Book {
	return &Book{
		alerts:    make(map[string]Alert),
		evaluator: evaluator,
		now:       time.Now,
		log:       log.With().Str("component", "alert_book").Logger(),
	}
}

// Add validates and stores a new alert. ID, CreatedAt and trigger state are
// assigned by the book.
func (b *Book) Add(alert Alert) (Alert, error) {
	if err := alert.Validate(); err != nil {
		return Alert{}, err
	}

	alert.ID = uuid.New().String()
	alert.CreatedAt = b.now()
	alert.Triggered = false
	alert.TriggeredAt = nil
	alert.CurrentValue = 0

	b.mu.Lock()
	b.alerts[alert.ID] = alert
	b.mu.Unlock()

	b.log.Debug().Str("alert_id", alert.ID).Str("ticker", alert.Ticker).Msg("Alert added")
	return alert, nil
}

// List returns all alerts ordered by creation time
func (b *Book) List() []Alert {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedLocked()
}

// Get returns a single alert
func (b *Book) Get(id string) (Alert, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	alert, ok := b.alerts[id]
	if !ok {
		return Alert{}, fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}
	return alert, nil
}

// Delete removes an alert
func (b *Book) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.alerts[id]; !ok {
		return fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}
	delete(b.alerts, id)
	return nil
}

// Evaluate runs every stored alert against assets and returns the alerts
// that triggered during this call.
func (b *Book) Evaluate(assets []domain.AssetSnapshot) []Alert {
	b.mu.Lock()
	defer b.mu.Unlock()

	updated, triggered := b.evaluator.Evaluate(assets, b.sortedLocked())
	for _, alert := range updated {
		b.alerts[alert.ID] = alert
	}
	return triggered
}

func (b *Book) sortedLocked() []Alert {
	out := make([]Alert, 0, len(b.alerts))
	for _, a := range b.alerts {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
