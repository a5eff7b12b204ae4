package cmd

import (
	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/outwriter"
	"github.com/spf13/cobra"
)

// spacingCmd estimates the typical datapoint spacing.
var spacingCmd = &cobra.Command{
	Use:   "spacing [series-file]",
	Short: "Show the typical datapoint spacing and the crosshair hit radius.",
	Long: `Estimate how far apart consecutive datapoints are on the hit-test axis.

Each series contributes |last - first| / (count - 1). The chart-wide spacing is the
largest of these, and a datapoint is a crosshair hit when it lies within half of it.
Series with fewer than two datapoints do not contribute; with none left the
spacing is undefined and every nearest datapoint counts as a hit.

Examples:
  # Spacing of timestamps
  linechart spacing series.json --orientation vertical

  # Spacing of values
  linechart spacing series.json --orientation horizontal --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSpacing(cfg, storeManager, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot estimate spacing", err)
		}
	},
}
