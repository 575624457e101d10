package scheduler

import (
	"context"
	"time"

	"github.com/aristath/fiisentinel/internal/modules/market"
	"github.com/rs/zerolog"
)

// MarketScanner is the part of the market service the scan job drives
type MarketScanner interface {
	Scan(ctx context.Context) (market.ScanReport, error)
}

// ScanMarketJob scans every tracked asset for signals, arbitrage and alerts
type ScanMarketJob struct {
	scanner MarketScanner
	timeout time.Duration
	log     zerolog.Logger
}

// NewScanMarketJob creates a new ScanMarketJob
func NewScanMarketJob(scanner MarketScanner, timeout time.Duration, log zerolog.Logger) *ScanMarketJob {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ScanMarketJob{
		scanner: scanner,
		timeout: timeout,
		log:     log.With().Str("job", "scan_market").Logger(),
	}
}

// Name returns the job name
func (j *ScanMarketJob) Name() string {
	return "scan_market"
}

// Run executes the scan
func (j *ScanMarketJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	report, err := j.scanner.Scan(ctx)
	if err != nil {
		return err
	}

	j.log.Debug().Int("assets", len(report.Results)).Msg("Scan job finished")
	return nil
}
