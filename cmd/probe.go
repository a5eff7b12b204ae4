package cmd

import (
	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// probeCmd resolves the nearest datapoints at one position.
var probeCmd = &cobra.Command{
	Use:   "probe [series-file]",
	Short: "Show the nearest datapoint of each series at a position.",
	Long: `Load series into a headless chart and probe it the way the crosshair does.

For every visible series the nearest datapoint on the hit-test axis is reported,
together with whether it lies within half the typical datapoint spacing:
- vertical hit-tests on the domain key (--x)
- horizontal hit-tests on the value (--y)
- both hit-tests on the value and draws both guide lines

Positions are domain coordinates by default. Use --px/--py for pixel positions
inside the plot area (--chart-width x --chart-height).

When no series file is given the series stored in the snapshot store are probed.
With --session-backend set, every accepted hit is recorded as a probe session.

Examples:
  # Probe a time series at a timestamp (epoch ms)
  linechart probe series.json --orientation vertical --x 1700000000000

  # Probe by value on a horizontal crosshair
  linechart probe series.csv --orientation horizontal --y 42

  # Probe the pixel under a cursor and export as JSON
  linechart probe series.xlsx --orientation both --px 320 --py 90 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		req := core.ProbeRequest{
			X: viper.GetFloat64("x"),
			Y: viper.GetFloat64("y"),
		}
		if cmd.Flags().Changed("px") {
			req = core.ProbeRequest{X: viper.GetFloat64("px"), Y: viper.GetFloat64("py"), Pixel: true}
		}
		if err := core.ExecuteProbe(cfg, storeManager, outwriter.NewOutWriter(), req); err != nil {
			contract.LogFatal("Cannot probe series", err)
		}
	},
}
