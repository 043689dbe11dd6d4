package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
)

// Scheduler wraps gocron scheduler for managing periodic sync runs.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.InternalError("failed to create gocron scheduler").WithCause(err).Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start(_ context.Context) {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler, waiting for running jobs.
func (s *Scheduler) Stop(_ context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleEvery runs task every interval, starting immediately. Overlapping
// executions are skipped rather than queued.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, task func()) (string, error) {
	if interval <= 0 {
		return "", errors.ValidationError("schedule interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}
	return s.schedule(name, gocron.DurationJob(interval), task, gocron.WithStartAt(gocron.WithStartImmediately()))
}

// ScheduleCron runs task on a five-field cron expression.
func (s *Scheduler) ScheduleCron(name, expression string, task func()) (string, error) {
	return s.schedule(name, gocron.CronJob(expression, false), task)
}

func (s *Scheduler) schedule(name string, def gocron.JobDefinition, task func(), extra ...gocron.JobOption) (string, error) {
	opts := append([]gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}, extra...)
	job, err := s.scheduler.NewJob(def, gocron.NewTask(func() {
		slog.Debug("Executing scheduled job", logfields.ScheduleName(name))
		task()
	}), opts...)
	if err != nil {
		return "", errors.ValidationError("failed to create scheduled job").
			WithCause(err).
			WithContext("name", name).
			Build()
	}
	return job.ID().String(), nil
}
