package di

import (
	"fmt"

	"github.com/aristath/fiisentinel/internal/config"
	"github.com/aristath/fiisentinel/internal/scheduler"
	"github.com/rs/zerolog"
)

const (
	walCheckpointSchedule = "0 0 * * * *"  // hourly
	pruneHistorySchedule  = "0 30 3 * * *" // daily at 03:30
)

// RegisterJobs registers all background jobs with the scheduler
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil || container.Scheduler == nil {
		return nil, fmt.Errorf("container services must be initialized first")
	}

	instances := &JobInstances{}

	// Market scan
	scanMarket := scheduler.NewScanMarketJob(container.MarketService, cfg.ScanTimeout, log)
	if err := container.Scheduler.AddJob(cfg.ScanSchedule, scanMarket); err != nil {
		return nil, fmt.Errorf("failed to register %s job: %w", scanMarket.Name(), err)
	}
	instances.ScanMarket = scanMarket

	// Database maintenance
	walCheckpoints := scheduler.NewCheckWALCheckpointsJob(log, container.HistoryDB)
	if err := container.Scheduler.AddJob(walCheckpointSchedule, walCheckpoints); err != nil {
		return nil, fmt.Errorf("failed to register %s job: %w", walCheckpoints.Name(), err)
	}
	instances.CheckWALCheckpoints = walCheckpoints

	if cfg.HistoryRetention > 0 {
		prune := scheduler.NewPruneHistoryJob(container.HistoryRepo, cfg.HistoryRetention, log)
		if err := container.Scheduler.AddJob(pruneHistorySchedule, prune); err != nil {
			return nil, fmt.Errorf("failed to register %s job: %w", prune.Name(), err)
		}
		instances.PruneHistory = prune
	}

	log.Info().Int("jobs", len(container.Scheduler.Status())).Msg("Jobs registered")

	return instances, nil
}
