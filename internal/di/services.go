package di

import (
	"fmt"

	"github.com/aristath/fiisentinel/internal/config"
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
	"github.com/rs/zerolog"
)

// InitializeServices creates every service in dependency order
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.HistoryDB == nil {
		return fmt.Errorf("container databases must be initialized first")
	}

	// Repositories
	container.HistoryRepo = history.NewHistoryDB(container.HistoryDB, log)

	// Events
	container.EventBus = events.NewBus()
	container.EventManager = events.NewManager(container.EventBus, log)

	// Core engine. Recorded yields replace the synthetic averages once available.
	container.IndicatorService = indicators.NewService(log, indicators.WithYieldHistory(container.HistoryRepo))
	container.SignalEngine = signals.NewEngine()
	container.ArbitrageDetector = arbitrage.NewDetector(log)
	container.AlertBook = alerts.NewBook(alerts.NewEvaluator(log), log)
	container.StrategyCatalog = strategies.NewCatalog(log)
	container.WorkerPool = scanner.NewWorkerPool(cfg.ScanWorkers, container.IndicatorService, container.SignalEngine)

	// Notifications
	n, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}
	container.Notifier = n

	// Market
	container.SnapshotStore = market.NewStore()
	container.MarketService = market.NewService(
		container.SnapshotStore,
		container.HistoryRepo,
		container.HistoryRepo,
		container.WorkerPool,
		container.ArbitrageDetector,
		container.AlertBook,
		container.EventManager,
		container.Notifier,
		log,
	)

	container.Scheduler = scheduler.New(log)

	log.Info().
		Int("scan_workers", container.WorkerPool.Workers()).
		Bool("telegram", cfg.TelegramEnabled()).
		Msg("Services initialized")

	return nil
}

func newNotifier(cfg *config.Config, log zerolog.Logger) (notifier.Notifier, error) {
	if !cfg.TelegramEnabled() {
		return notifier.NewLogNotifier(log), nil
	}
	tg, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
	}
	return tg, nil
}
