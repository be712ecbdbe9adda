package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-plant-advisor/internal/logger"
)

// Refresher re-runs the fetch pipeline for the selected date.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically refreshes the selected date.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	log       *zap.SugaredLogger
}

// New creates a new Scheduler. An interval <= 0 disables it.
func New(interval time.Duration, refresher Refresher) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		interval:  interval,
		log:       logger.Named("scheduler"),
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
// The first run happens one interval after Start.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("Periodic refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Infow("Periodic refresh scheduled", "interval", s.interval.String())
	return nil
}

// run refreshes without a deadline of its own; the HTTP client timeout is the
// only bound on a fetch.
func (s *Scheduler) run() {
	s.log.Debug("Running refresh job")
	if err := s.refresher.Refresh(context.Background()); err != nil {
		s.log.Warnw("Refresh failed", "error", err)
		return
	}
	s.log.Debug("Completed refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
