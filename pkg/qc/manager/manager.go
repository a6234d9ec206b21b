package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"microqc-hq/verdict/pkg/config"
)

// Manager runs watch mode: an initial run, then re-runs on input file
// changes and, when configured, on a cron schedule. A metrics handler is
// served for the duration.
type Manager struct {
	cfg     *config.Config
	runner  *Runner
	logger  *slog.Logger
	metrics http.Handler
}

// New creates a watch-mode manager. The metrics handler may be nil.
func New(cfg *config.Config, runner *Runner, logger *slog.Logger, metrics http.Handler) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:     cfg,
		runner:  runner,
		logger:  logger.With("component", "qc.manager"),
		metrics: metrics,
	}
}

// Run executes watch mode until the context is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	run := func() error {
		_, err := m.runner.RunOnce(ctx)
		return err
	}

	// Initial run before watching. A failure here is logged, not fatal:
	// the point of watch mode is to recover once the inputs are fixed.
	if err := run(); err != nil {
		m.logger.Error("initial run failed", "error", err)
	}

	var srv *http.Server
	if m.metrics != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.metrics)
		srv = &http.Server{
			Addr:              m.cfg.Watch.MetricsListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			m.logger.Info("metrics listening", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				m.logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	var sched *Scheduler
	if m.cfg.Watch.Schedule != "" {
		var err error
		sched, err = NewScheduler(m.cfg.Watch.Schedule, m.logger, run)
		if err != nil {
			return err
		}
		sched.Start()
	}

	watcher, err := NewFileWatcher(&FileWatcherConfig{
		Paths:            m.watchPaths(),
		DebounceInterval: m.cfg.Watch.DebounceInterval,
		Extensions:       []string{".tsv", ".yaml", ".yml"},
	}, m.logger)
	if err != nil {
		return err
	}

	watchErr := watcher.Watch(ctx, run)

	if sched != nil {
		sched.Stop()
	}
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			m.logger.Error("metrics server shutdown failed", "error", err)
		}
	}

	if watchErr != nil {
		return fmt.Errorf("watch mode failed: %w", watchErr)
	}
	return nil
}

// watchPaths lists the input files whose changes should re-trigger a run.
// An endpoint data source contributes nothing; the scheduler covers it.
func (m *Manager) watchPaths() []string {
	input := m.cfg.QC.Input
	paths := []string{input.QCRules, input.QCTests, input.Mapping}
	if input.Data.File != "" {
		paths = append(paths, input.Data.File)
	}
	return paths
}
