package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aristath/fiisentinel/internal/modules/market"
	testingpkg "github.com/aristath/fiisentinel/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name  string
	err   error
	calls int
}

func (j *countingJob) Run() error {
	j.calls++
	return j.err
}

func (j *countingJob) Name() string {
	return j.name
}

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(testLogger())
	err := s.AddJob("not a schedule", &countingJob{name: "x"})
	assert.Error(t, err)
	assert.Empty(t, s.Status())
}

func TestRunNow_TracksStatus(t *testing.T) {
	s := New(testLogger())
	ok := &countingJob{name: "ok"}
	bad := &countingJob{name: "bad", err: errors.New("boom")}

	require.NoError(t, s.AddJob("@every 1h", ok))
	require.NoError(t, s.AddJob("0 */5 * * * *", bad))

	require.NoError(t, s.RunNow(ok))
	assert.EqualError(t, s.RunNow(bad), "boom")

	status := s.Status()
	require.Len(t, status, 2)
	assert.Equal(t, "ok", status[0].Name)
	assert.Equal(t, "@every 1h", status[0].Schedule)
	assert.Equal(t, 1, status[0].Runs)
	assert.Empty(t, status[0].LastError)
	assert.Equal(t, "boom", status[1].LastError)
	assert.False(t, status[1].LastRun.IsZero())
}

func TestStartStop_RunsScheduledJob(t *testing.T) {
	s := New(testLogger())
	done := make(chan struct{}, 1)
	job := &signalJob{done: done}
	require.NoError(t, s.AddJob("@every 1s", job))

	s.Start()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
	s.Stop()
}

type signalJob struct {
	done chan struct{}
}

func (j *signalJob) Run() error {
	select {
	case j.done <- struct{}{}:
	default:
	}
	return nil
}

func (j *signalJob) Name() string { return "signal" }

type stubScanner struct {
	err         error
	hadDeadline bool
}

func (s *stubScanner) Scan(ctx context.Context) (market.ScanReport, error) {
	_, s.hadDeadline = ctx.Deadline()
	return market.ScanReport{}, s.err
}

func TestScanMarketJob(t *testing.T) {
	sc := &stubScanner{}
	job := NewScanMarketJob(sc, 0, testLogger())

	assert.Equal(t, "scan_market", job.Name())
	assert.Equal(t, 2*time.Minute, job.timeout)
	require.NoError(t, job.Run())
	assert.True(t, sc.hadDeadline)

	sc.err = errors.New("scan failed")
	assert.Error(t, job.Run())
}

type stubPruner struct {
	calls int
	err   error
}

func (p *stubPruner) Prune(retention time.Duration) (int64, error) {
	p.calls++
	return 3, p.err
}

func TestPruneHistoryJob(t *testing.T) {
	p := &stubPruner{}

	require.NoError(t, NewPruneHistoryJob(p, 0, testLogger()).Run())
	assert.Equal(t, 0, p.calls)

	require.NoError(t, NewPruneHistoryJob(p, time.Hour, testLogger()).Run())
	assert.Equal(t, 1, p.calls)

	p.err = errors.New("locked")
	assert.ErrorContains(t, NewPruneHistoryJob(p, time.Hour, testLogger()).Run(), "failed to prune history")
}

func TestCheckWALCheckpointsJob(t *testing.T) {
	db := testingpkg.NewTestDB(t, "history")

	job := NewCheckWALCheckpointsJob(testLogger(), db, nil)
	assert.Equal(t, "check_wal_checkpoints", job.Name())
	assert.NoError(t, job.Run())
}
