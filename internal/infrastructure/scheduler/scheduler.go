// Package scheduler runs the background jobs: study reminders and task
// deadline warnings.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/studymind/studymind-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job is one schedulable unit of background work.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Run executes the job once.
	Run(ctx context.Context) error
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Config holds scheduler settings.
type Config struct {
	// Timezone for schedule calculations.
	Timezone *time.Location

	// DeadlineCheckTime is the "HH:MM" clock for the daily deadline scan.
	DeadlineCheckTime string

	// JobTimeout bounds a single job run.
	JobTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timezone:          time.UTC,
		DeadlineCheckTime: "08:00",
		JobTimeout:        2 * time.Minute,
	}
}

// Scheduler wires jobs onto a gocron scheduler.
type Scheduler struct {
	cfg  Config
	cron *gocron.Scheduler
	log  *logger.Logger
}

// New creates a Scheduler.
func New(cfg Config, log *logger.Logger) *Scheduler {
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultConfig().JobTimeout
	}
	if log == nil {
		log = logger.Default()
	}

	return &Scheduler{
		cfg:  cfg,
		cron: gocron.NewScheduler(cfg.Timezone),
		log:  log.With(logger.Component("scheduler")),
	}
}

// AddMinutely registers a job that runs at the top of every minute. The
// reminder job needs minute alignment so "09:00" fires during the 09:00
// minute, not at a drifting offset.
func (s *Scheduler) AddMinutely(job Job) error {
	_, err := s.cron.Every(1).Minute().StartAt(nextMinute(time.Now().In(s.cfg.Timezone))).Do(s.wrap(job))
	if err != nil {
		return fmt.Errorf("scheduler: register %s: %w", job.Name(), err)
	}
	return nil
}

// AddDaily registers a job that runs once a day at the configured
// deadline check time.
func (s *Scheduler) AddDaily(job Job) error {
	_, err := s.cron.Every(1).Day().At(s.cfg.DeadlineCheckTime).Do(s.wrap(job))
	if err != nil {
		return fmt.Errorf("scheduler: register %s: %w", job.Name(), err)
	}
	return nil
}

// Start launches the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
	s.log.Info("scheduler started", logger.Int("jobs", s.cron.Len()))
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// wrap adapts a Job to a gocron task with timeout and outcome logging.
func (s *Scheduler) wrap(job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
		defer cancel()

		started := time.Now()
		err := job.Run(ctx)
		if err != nil {
			s.log.Error("job failed",
				logger.String("job", job.Name()),
				logger.Latency(time.Since(started)),
				logger.Err(err),
			)
			return
		}
		s.log.Debug("job completed",
			logger.String("job", job.Name()),
			logger.Latency(time.Since(started)),
		)
	}
}

func nextMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute).Add(time.Minute)
}
