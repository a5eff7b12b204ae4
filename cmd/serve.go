package cmd

import (
	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs a live chart.
var serveCmd = &cobra.Command{
	Use:   "serve [series-file]",
	Short: "Run a live chart with a feed, crosshair sync and an HTTP API.",
	Long: `Serve one chart that stays live until interrupted.

The chart is driven by a single event loop. Everything else posts onto it:
- a websocket feed (--feed) appends ticks to the series buffers
- the sync bus (--bus) mirrors crosshair moves from other charts on the same channel,
  and publishes this chart's moves for them (mirrored moves are never re-published)
- the HTTP API drives and inspects the crosshair

Routes:
  GET  /healthz     chart id and crosshair state
  GET  /series      buffered series summaries
  GET  /crosshair   full crosshair state with highlights
  POST /pointer     {"type":"enter|move|leave","px":..,"py":..}
  POST /probe       {"x":..,"y":..} in domain coordinates
  GET  /metrics     Prometheus metrics

Examples:
  # Serve a chart locally with in-process sync
  linechart serve series.json --orientation vertical

  # Two charts sharing a crosshair over Redis
  linechart serve cpu.json --orientation vertical --bus redis --redis-addr localhost:6379 --listen :8081
  linechart serve mem.json --orientation vertical --bus redis --redis-addr localhost:6379 --listen :8082`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindCommandFlag(cmd, "feed"); err != nil {
			return err
		}
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		series, err := core.LoadSeries(cfg, storeManager)
		if err != nil {
			contract.LogFatal("Cannot load series", err)
		}
		if err := server.Run(rootCtx, cfg, series); err != nil {
			contract.LogFatal("Server stopped", err)
		}
	},
}
