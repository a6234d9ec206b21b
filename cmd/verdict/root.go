package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Verdict - QC rule engine for microbial sequencing runs",
	Long: `Verdict evaluates per-sample sequencing QC metrics against a
tab-separated rule table and resolves a quality outcome and follow-up
action for every sample.

Rules are scoped by species, assembly type, and assembly software, so a
single rule table can cover a mixed sequencing run. Outcomes and their
actions are defined in a second table; the engine picks the action of the
highest-priority fired outcome.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
