// Package di provides dependency injection type definitions.
//
// The Container is the single source of truth for service instances. It is
// created by Wire and handed to the HTTP server and the scheduler.
package di

import (
	"github.com/aristath/fiisentinel/internal/database"
	"github.com/aristath/fiisentinel/internal/events"
	"github.com/aristath/fiisentinel/internal/modules/alerts"
	"github.com/aristath/fiisentinel/internal/modules/arbitrage"
	"github.com/aristath/fiisentinel/internal/modules/history"
	"github.com/aristath/fiisentinel/internal/modules/indicators"
	"github.com/aristath/fiisentinel/internal/modules/market"
	"github.com/aristath/fiisentinel/internal/modules/signals"
	"github.com/aristath/fiisentinel/internal/modules/strategies"
	"github.com/aristath/fiisentinel/internal/notifier"
	"github.com/aristath/fiisentinel/internal/scanner"
	"github.com/aristath/fiisentinel/internal/scheduler"
)

// Container holds all dependencies for the application
type Container struct {
	// Databases
	HistoryDB *database.DB

	// Repositories
	HistoryRepo *history.HistoryDB

	// Events
	EventBus     *events.Bus
	EventManager *events.Manager

	// Core engine
	IndicatorService  *indicators.Service
	SignalEngine      *signals.Engine
	ArbitrageDetector *arbitrage.Detector
	AlertBook         *alerts.Book
	StrategyCatalog   *strategies.Catalog
	WorkerPool        *scanner.WorkerPool

	// Market
	SnapshotStore *market.Store
	MarketService *market.Service
	Notifier      notifier.Notifier

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds references to all registered jobs for manual triggering
type JobInstances struct {
	ScanMarket          scheduler.Job
	CheckWALCheckpoints scheduler.Job
	PruneHistory        scheduler.Job // nil when history is kept forever
}

// Close releases the databases held by the container
func (c *Container) Close() error {
	if c == nil || c.HistoryDB == nil {
		return nil
	}
	return c.HistoryDB.Close()
}
