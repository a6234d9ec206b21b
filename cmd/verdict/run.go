package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"microqc-hq/verdict/pkg/cli"
	"microqc-hq/verdict/pkg/qc/engine"
	"microqc-hq/verdict/pkg/qc/manager"
)

var runFlags struct {
	inputFlags
	results  string
	warnings string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run QC once and write the result tables",
	Long: `Run QC once: load the rule and test tables, load the sample data,
evaluate every sample, and write the results and warnings tables.

Examples:
  # Run with default config
  verdict run

  # Run with custom config
  verdict run --config /etc/verdict/config.yaml

  # Override the data source with a local file
  verdict run --file run_data.tsv

  # Fetch sample data from a JSON endpoint
  verdict run --api-call https://lims.example.org/api/runs/latest`,
	RunE: runQC,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.dataFile, "file", "f", "", "override run-data file path")
	runCmd.Flags().StringVar(&runFlags.apiCall, "api-call", "", "override run-data endpoint URL")
	runCmd.Flags().StringVarP(&runFlags.results, "results", "o", "", "override results file path")
	runCmd.Flags().StringVar(&runFlags.warnings, "warnings", "", "override warnings file path")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runQC(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&runFlags.inputFlags)
	if err != nil {
		return err
	}
	if runFlags.results != "" {
		cfg.QC.Output.Results = runFlags.results
	}
	if runFlags.warnings != "" {
		cfg.QC.Output.Warnings = runFlags.warnings
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

	var recorder engine.Recorder
	if collector := newCollector(cfg); collector != nil {
		recorder = collector
	}

	runner := manager.NewRunner(cfg, logger.Logger, recorder, store)

	summary, err := runner.RunOnce(cmd.Context())
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	printSummary(cfg.Title, summary)
	fmt.Printf("✓ Results written to %s\n", cfg.QC.Output.Results)
	fmt.Printf("✓ Warnings written to %s\n", cfg.QC.Output.Warnings)
	return nil
}

func printSummary(title string, s *engine.Summary) {
	if title != "" {
		fmt.Printf("%s\n", title)
	}
	fmt.Printf("✓ Processed %d samples in %s\n", s.Samples, s.Duration.Round(time.Millisecond))

	if len(s.OutcomeCounts) > 0 {
		fmt.Println("\nOutcomes:")
		for _, oc := range engine.SortedCounts(s.OutcomeCounts) {
			fmt.Printf("  %-24s %d\n", oc.Key, oc.Count)
		}
	}

	if len(s.ActionCounts) > 0 {
		fmt.Println("\nActions:")
		for _, ac := range engine.SortedCounts(s.ActionCounts) {
			fmt.Printf("  %-24s %d\n", ac.Key, ac.Count)
		}
	}

	if len(s.TopFailedRules) > 0 {
		fmt.Println("\nMost failed rules:")
		for _, rc := range s.TopFailedRules {
			fmt.Printf("  %-24s %d\n", rc.RuleID, rc.Count)
		}
	}

	if n := len(s.Warnings) + len(s.SkippedRules); n > 0 {
		fmt.Printf("\n%d warning(s); see the warnings table for details\n", n)
	}
}
