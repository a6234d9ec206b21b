package manager

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler re-triggers runs on a cron schedule. It exists for endpoint
// data sources, which the file watcher cannot observe.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler creates a scheduler running onTick per the standard
// five-field cron expression.
func NewScheduler(schedule string, logger *slog.Logger, onTick func() error) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "qc.scheduler")

	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		logger.Info("scheduled run triggered", "schedule", schedule)
		if err := onTick(); err != nil {
			logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule runs: %w", err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins scheduling in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
