package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"microqc-hq/verdict/pkg/cli"
	"microqc-hq/verdict/pkg/qc/engine"
	"microqc-hq/verdict/pkg/qc/manager"
)

var watchFlags inputFlags

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run QC continuously, re-running on input changes",
	Long: `Run QC once, then keep running: any change to the rule table, the
test table, the mapping configuration, or a file data source triggers a
re-run after a debounce interval. When a cron schedule is configured,
endpoint data sources are re-fetched on that schedule. Prometheus metrics
are served for the duration.

Examples:
  # Watch with default config
  verdict watch

  # Watch an endpoint, re-fetching hourly (watch.schedule: "0 * * * *")
  verdict watch --api-call https://lims.example.org/api/runs/latest`,
	RunE: watchQC,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.dataFile, "file", "f", "", "override run-data file path")
	watchCmd.Flags().StringVar(&watchFlags.apiCall, "api-call", "", "override run-data endpoint URL")
	watchCmd.Flags().StringVar(&watchFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func watchQC(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&watchFlags)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	store, err := openHistory(cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var (
		recorder engine.Recorder
		handler  http.Handler
	)
	if collector := newCollector(cfg); collector != nil {
		recorder = collector
		handler = collector.Handler()
	}

	runner := manager.NewRunner(cfg, logger.Logger, recorder, store)
	mgr := manager.New(cfg, runner, logger.Logger, handler)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- mgr.Run(ctx)
	}()

	fmt.Println("✓ Watch mode active")
	if handler != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Watch.MetricsListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errChan:
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		return nil
	case sig := <-cli.WaitForShutdown():
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()
		if err := <-errChan; err != nil {
			return cli.NewCommandError("watch", err)
		}
		fmt.Println("✓ Stopped")
		return nil
	}
}
