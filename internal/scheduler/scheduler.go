// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// JobStatus is the last observed outcome of a job
type JobStatus struct {
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	Runs      int       `json:"runs"`
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu     sync.RWMutex
	status map[string]*JobStatus
	order  []string
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		log:    log.With().Str("component", "scheduler").Logger(),
		status: make(map[string]*JobStatus),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 */5 * * * *"      - Every 5 minutes
//   - "@hourly"            - Every hour
//   - "0 0 18 * * MON-FRI" - 6 PM weekdays
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		_ = s.execute(job)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.status[job.Name()]; !ok {
		s.order = append(s.order, job.Name())
	}
	s.status[job.Name()] = &JobStatus{Name: job.Name(), Schedule: schedule}
	s.mu.Unlock()

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return s.execute(job)
}

// Status returns the status of every registered job in registration order
func (s *Scheduler) Status() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobStatus, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.status[name])
	}
	return out
}

func (s *Scheduler) execute(job Job) error {
	s.log.Debug().Str("job", job.Name()).Msg("Running job")

	err := job.Run()
	if err != nil {
		s.log.Error().
			Err(err).
			Str("job", job.Name()).
			Msg("Job failed")
	} else {
		s.log.Debug().Str("job", job.Name()).Msg("Job completed")
	}

	s.mu.Lock()
	if st, ok := s.status[job.Name()]; ok {
		st.LastRun = time.Now()
		st.Runs++
		st.LastError = ""
		if err != nil {
			st.LastError = err.Error()
		}
	}
	s.mu.Unlock()

	return err
}
