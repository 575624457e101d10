package server

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/aristath/fiisentinel/internal/database"
	"github.com/aristath/fiisentinel/internal/di"
	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/httputil"
	"github.com/aristath/fiisentinel/internal/modules/market"
	"github.com/aristath/fiisentinel/internal/scheduler"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// JobRunner reports job status and runs jobs on demand
type JobRunner interface {
	Status() []scheduler.JobStatus
	RunNow(job scheduler.Job) error
}

// SnapshotCounter reports how many assets are tracked
type SnapshotCounter interface {
	Len() int
}

// ScanReporter exposes the latest market scan
type ScanReporter interface {
	LastScan() (market.ScanReport, bool)
}

// SystemHandlers contains system-related HTTP handlers
type SystemHandlers struct {
	log       zerolog.Logger
	startedAt time.Time
	jobs      JobRunner
	instances *di.JobInstances
	snapshots SnapshotCounter
	scans     ScanReporter
	databases []*database.DB
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	startedAt time.Time,
	jobs JobRunner,
	instances *di.JobInstances,
	snapshots SnapshotCounter,
	scans ScanReporter,
	databases ...*database.DB,
) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("service", "system").Logger(),
		startedAt: startedAt,
		jobs:      jobs,
		instances: instances,
		snapshots: snapshots,
		scans:     scans,
		databases: databases,
	}
}

// SystemStatusResponse represents the system status
type SystemStatusResponse struct {
	Status             string     `json:"status"`
	Version            string     `json:"version"`
	UptimeSeconds      int64      `json:"uptime_seconds"`
	CPUPercent         float64    `json:"cpu_percent"`
	RAMPercent         float64    `json:"ram_percent"`
	Goroutines         int        `json:"goroutines"`
	TrackedAssets      int        `json:"tracked_assets"`
	LastScanAt         *time.Time `json:"last_scan_at,omitempty"`
	LastScanDurationMs int64      `json:"last_scan_duration_ms,omitempty"`
}

// DBInfo represents statistics of a single database
type DBInfo struct {
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Reachable bool            `json:"reachable"`
	Stats     *database.Stats `json:"stats,omitempty"`
	Error     string          `json:"error,omitempty"`
	SizeMB    float64         `json:"size_mb"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		Version:       Version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
	}
	if h.snapshots != nil {
		response.TrackedAssets = h.snapshots.Len()
	}
	if h.scans != nil {
		if report, ok := h.scans.LastScan(); ok {
			at := report.StartedAt
			response.LastScanAt = &at
			response.LastScanDurationMs = report.DurationMs
		}
	}

	httputil.Write(w, r, h.log, http.StatusOK, response)
}

// HandleJobsStatus handles GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		httputil.Write(w, r, h.log, http.StatusOK, []scheduler.JobStatus{})
		return
	}
	httputil.Write(w, r, h.log, http.StatusOK, h.jobs.Status())
}

// HandleTriggerJob handles POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	job := h.lookupJob(name)
	if job == nil || h.jobs == nil {
		httputil.WriteErr(w, r, h.log, fmt.Errorf("job %s: %w", name, domain.ErrNotFound))
		return
	}

	if err := h.jobs.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		httputil.WriteError(w, r, h.log, http.StatusInternalServerError, err.Error())
		return
	}

	httputil.Write(w, r, h.log, http.StatusOK, map[string]string{
		"status":  "success",
		"message": name + " completed",
	})
}

// HandleDatabaseStats handles GET /api/system/database
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	out := make([]DBInfo, 0, len(h.databases))
	for _, db := range h.databases {
		if db == nil {
			continue
		}
		info := DBInfo{Name: db.Name(), Path: db.Path()}
		info.Reachable = db.QuickCheck(r.Context()) == nil
		stats, err := db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to read database stats")
			info.Error = err.Error()
		} else {
			info.Stats = stats
			info.SizeMB = float64(stats.SizeBytes+stats.WALSizeBytes) / 1024 / 1024
		}
		out = append(out, info)
	}

	httputil.Write(w, r, h.log, http.StatusOK, out)
}

func (h *SystemHandlers) lookupJob(name string) scheduler.Job {
	if h.instances == nil {
		return nil
	}
	for _, job := range []scheduler.Job{h.instances.ScanMarket, h.instances.CheckWALCheckpoints, h.instances.PruneHistory} {
		if job != nil && job.Name() == name {
			return job
		}
	}
	return nil
}

// getSystemStats returns CPU and RAM usage percentages. The CPU sample
// blocks for 100ms.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
