package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/inkweld/inkweld/internal/logfields"
)

// Scheduler wraps gocron for driving periodic full rebuilds alongside the
// change-driven watch loop. Scheduled rebuilds go through the same onChange
// entry point, so debounce and single-flight guarantees still hold.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// SchedulePeriodicRebuild arms a recurring full rebuild of the coordinator's
// project at the given interval.
func (s *Scheduler) SchedulePeriodicRebuild(c *Coordinator, interval time.Duration) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Info("scheduled full rebuild", "interval", interval)
			c.onChange("scheduled-rebuild")
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	return job.ID().String(), nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Warn("scheduler shutdown error", logfields.Error(err))
	}
}
