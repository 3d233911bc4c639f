package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "time-tracker",
		Short: "Track time entries and export them to Excel",
		Long: `time-tracker keeps a list of time entries, reports on them and exports
them to xlsx workbooks in the background.

Examples:
  time-tracker serve --config config/local.yaml     # Run the HTTP API
  time-tracker export --out ./exports                # Export every entry with live progress
  time-tracker report weekly --week 2024-03-04       # Hours per day for one week
  time-tracker report projects                       # Time per project`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/local.yaml",
		"Path to configuration file")

	rootCmd.AddCommand(serveCmd, exportCmd, reportCmd)
}
