package scheduler

import (
	"fmt"
	"time"

	"github.com/aristath/fiisentinel/internal/database"
	"github.com/rs/zerolog"
)

// CheckWALCheckpointsJob truncates the WAL of each database
type CheckWALCheckpointsJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewCheckWALCheckpointsJob creates a new CheckWALCheckpointsJob
func NewCheckWALCheckpointsJob(log zerolog.Logger, databases ...*database.DB) *CheckWALCheckpointsJob {
	return &CheckWALCheckpointsJob{
		databases: databases,
		log:       log.With().Str("job", "check_wal_checkpoints").Logger(),
	}
}

// Name returns the job name
func (j *CheckWALCheckpointsJob) Name() string {
	return "check_wal_checkpoints"
}

// Run executes the checkpoint on every database
func (j *CheckWALCheckpointsJob) Run() error {
	var firstErr error
	for _, db := range j.databases {
		if db == nil {
			continue
		}
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		j.log.Debug().Str("database", db.Name()).Msg("WAL checkpoint completed")
	}
	return firstErr
}

// HistoryPruner removes old history rows
type HistoryPruner interface {
	Prune(retention time.Duration) (int64, error)
}

// PruneHistoryJob deletes price and yield history past the retention window
type PruneHistoryJob struct {
	pruner    HistoryPruner
	retention time.Duration
	log       zerolog.Logger
}

// NewPruneHistoryJob creates a new PruneHistoryJob
func NewPruneHistoryJob(pruner HistoryPruner, retention time.Duration, log zerolog.Logger) *PruneHistoryJob {
	return &PruneHistoryJob{
		pruner:    pruner,
		retention: retention,
		log:       log.With().Str("job", "prune_history").Logger(),
	}
}

// Name returns the job name
func (j *PruneHistoryJob) Name() string {
	return "prune_history"
}

// Run executes the prune
func (j *PruneHistoryJob) Run() error {
	if j.retention <= 0 {
		return nil
	}

	removed, err := j.pruner.Prune(j.retention)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	j.log.Info().Int64("removed", removed).Dur("retention", j.retention).Msg("History pruned")
	return nil
}
