package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"microqc-hq/verdict/pkg/cli"
	"microqc-hq/verdict/pkg/qc/engine"
	"microqc-hq/verdict/pkg/qc/history"
)

var historyFlags struct {
	limit  int
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded QC runs",
	Long: `Inspect the run history recorded in the SQLite store. Requires
history.enabled: true in the configuration.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Long: `List recent runs, newest first.

Examples:
  # List the last 20 runs
  verdict history list

  # List the last 5 runs as JSON
  verdict history list --limit 5 --format json`,
	RunE: listHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its per-sample verdicts",
	Args:  cobra.ExactArgs(1),
	RunE:  showHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyListCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of runs to list")
	historyListCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
	historyShowCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
}

func openHistoryStore() (*history.Store, error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, cli.NewConfigError("history.enabled", "history is disabled; enable it to record and inspect runs")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.History, logger.Logger)
	if err != nil {
		return nil, cli.NewCommandError("history", err)
	}
	return store, nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	if historyFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %8s  %s\n", "RUN ID", "STARTED", "SAMPLES", "TITLE")
	for _, run := range runs {
		fmt.Printf("%-36s  %-20s  %8d  %s\n",
			run.RunID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Samples,
			run.Title,
		)
	}
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	run, verdicts, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("history show", err)
	}

	if historyFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, struct {
			Run      *history.RunRecord
			Verdicts []history.SampleVerdict
		}{run, verdicts})
	}

	fmt.Printf("Run:       %s\n", run.RunID)
	if run.Title != "" {
		fmt.Printf("Title:     %s\n", run.Title)
	}
	fmt.Printf("Source:    %s\n", run.Source)
	fmt.Printf("Started:   %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("Completed: %s\n", run.CompletedAt.Local().Format(time.RFC3339))
	fmt.Printf("Samples:   %d\n", run.Samples)

	if len(run.OutcomeCounts) > 0 {
		fmt.Println("\nOutcomes:")
		for _, oc := range engine.SortedCounts(run.OutcomeCounts) {
			fmt.Printf("  %-24s %d\n", oc.Key, oc.Count)
		}
	}
	if len(run.ActionCounts) > 0 {
		fmt.Println("\nActions:")
		for _, ac := range engine.SortedCounts(run.ActionCounts) {
			fmt.Printf("  %-24s %d\n", ac.Key, ac.Count)
		}
	}
	if len(run.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range run.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
	if len(run.SkippedRules) > 0 {
		fmt.Printf("\nSkipped rules: %s\n", strings.Join(run.SkippedRules, ", "))
	}

	if len(verdicts) > 0 {
		fmt.Println("\nSample verdicts:")
		fmt.Printf("  %-24s  %-16s  %-12s  %s\n", "SAMPLE", "OUTCOME", "ACTION", "FAILED RULES")
		for _, v := range verdicts {
			fmt.Printf("  %-24s  %-16s  %-12s  %s\n", v.SampleName, v.QCOutcome, v.QCAction, v.FailedRules)
		}
	}
	return nil
}
