package cmd

import (
	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/outwriter"
	"github.com/spf13/cobra"
)

// segmentsCmd classifies consecutive datapoints.
var segmentsCmd = &cobra.Command{
	Use:   "segments [series-file]",
	Short: "Classify each step of every series as increasing, decreasing or flat.",
	Long: `Classify every consecutive pair of datapoints by the change in value.

This is the classification charge-mode series are drawn with: one segment per pair,
colored by direction. Every visible series is classified whatever its mode.

Examples:
  # Classify a battery charge series
  linechart segments charge.json --orientation vertical

  # Export segments as JSON
  linechart segments charge.json --orientation vertical --output json --output-file segments.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSegments(cfg, storeManager, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot classify segments", err)
		}
	},
}
