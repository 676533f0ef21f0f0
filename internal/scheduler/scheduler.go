package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"peersupport-backend/internal/jobs"
	"peersupport-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// The expiry sweep is the enforcement point for the response deadline;
	// it runs every minute by default.
	_, err := s.cron.AddFunc(cfg.ExpireRescheduleRequests, s.jobs.ExpireRescheduleRequests)
	if err != nil {
		logger.Error("Failed to register ExpireRescheduleRequests job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.SendDeadlineReminders, s.jobs.SendDeadlineReminders)
	if err != nil {
		logger.Error("Failed to register SendDeadlineReminders job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.MarkCompletedSessions, s.jobs.MarkCompletedSessions)
	if err != nil {
		logger.Error("Failed to register MarkCompletedSessions job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has registered entries
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
