// main is the entry point for the linechart CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chartwerk/line-chart/cmd"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetRootContext(ctx)
	cmd.SetStoreManager(iocache.Manager)
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
