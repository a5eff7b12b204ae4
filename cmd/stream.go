package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/feed"
	"github.com/chartwerk/line-chart/internal/iocache"
	"github.com/chartwerk/line-chart/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bindCommandFlag points a Viper key at the flag of the command being run,
// for flags that more than one command declares.
func bindCommandFlag(cmd *cobra.Command, name string) error {
	if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
		return fmt.Errorf("failed to bind --%s: %w", name, err)
	}
	return nil
}

// streamCmd appends live ticks to series buffers.
var streamCmd = &cobra.Command{
	Use:   "stream [series-file]",
	Short: "Append live datapoints to series and print the resulting buffers.",
	Long: `Apply a stream of ticks to series the way a live chart does.

Each tick carries one datapoint per series, in series order:
  {"values":[{"value":1.5,"key":1700000000000},{"value":0.2,"key":1700000000000}]}

Datapoints are appended at the tail of each visible series. When a series holds
more than its max length (--max-length, or its own maxLength) one datapoint is
evicted from the head. Hidden series skip their value. A tick with the wrong
number of values is dropped with a warning.

Ticks are read as JSON lines from stdin, or from a websocket with --feed.

Examples:
  # Replay recorded ticks into a bounded buffer
  linechart stream series.json --orientation vertical --max-length 500 < ticks.jsonl

  # Follow a live feed and keep the result
  linechart stream series.json --orientation vertical --feed ws://localhost:9000/ticks --save --snapshot-backend sqlite`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindCommandFlag(cmd, "feed"); err != nil {
			return err
		}
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		series, err := core.LoadSeries(cfg, storeManager)
		if err != nil {
			contract.LogFatal("Cannot load series", err)
		}

		streamed, stats, err := feed.Stream(rootCtx, cfg, series, os.Stdin)
		if err != nil {
			contract.LogFatal("Stream failed", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "📥 %d ticks: %d appended, %d evicted, %d skipped, %d dropped, %d malformed (%s)\n",
			stats.Ticks, stats.Appended, stats.Evicted, stats.Skipped, stats.Dropped, stats.Malformed, time.Since(start).Round(time.Millisecond))

		if viper.GetBool("save") {
			store := storeManager.GetSnapshotStore()
			if store == nil {
				contract.LogFatal("Cannot save buffers", errors.New("snapshot store is not configured (set --snapshot-backend)"))
			}
			if err := iocache.SaveSeries(store, streamed, time.Now()); err != nil {
				contract.LogFatal("Cannot save buffers", err)
			}
		}

		if err := outwriter.NewOutWriter().WriteSeries(streamed, cfg); err != nil {
			contract.LogFatal("Cannot print series", err)
		}
	},
}
