package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/feed"
	"github.com/chartwerk/line-chart/internal/metrics"
	"github.com/chartwerk/line-chart/internal/syncbus"
	"github.com/chartwerk/line-chart/schema"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Tuning for a served chart.
const (
	loopBuffer      = 256
	shutdownTimeout = 5 * time.Second
)

// Live is one served chart with everything driving it.
type Live struct {
	Chart     *core.LineChart
	Loop      *core.EventLoop
	Bus       contract.CrosshairBus // nil when sync is disabled
	Publisher *syncbus.Publisher    // nil when sync is disabled
	Recorder  *metrics.Recorder
	Server    *Server
}

// NewLive builds a chart over series whose crosshair moves are published on the
// configured bus. Nothing runs until Serve.
func NewLive(ctx context.Context, cfg *contract.Config, series []schema.Series) (*Live, error) {
	bus, err := syncbus.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	var (
		callbacks core.Callbacks
		publisher *syncbus.Publisher
	)
	if bus != nil {
		publisher = syncbus.NewPublisher(bus, id)
		callbacks = publisher.Callbacks(callbacks)
	}

	recorder := metrics.NewRecorder()
	chart, err := core.NewLineChart(core.ChartParams{
		ID:               id,
		Options:          cfg.ChartOptions(),
		Series:           series,
		Callbacks:        callbacks,
		Recorder:         recorder,
		DefaultMaxLength: cfg.MaxLength,
		Quiet:            true,
	})
	if err != nil {
		if bus != nil {
			publisher.Close()
			_ = bus.Close()
		}
		return nil, err
	}

	loop := core.NewEventLoop(loopBuffer)
	return &Live{
		Chart:     chart,
		Loop:      loop,
		Bus:       bus,
		Publisher: publisher,
		Recorder:  recorder,
		Server:    New(cfg.ListenAddr, loop, chart, recorder.Handler()),
	}, nil
}

// Serve runs the event loop, HTTP server, feed and bus follower until ctx ends
// or the HTTP server fails. Feed and bus failures are logged and do not stop serving.
func (l *Live) Serve(ctx context.Context, feedURL string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ignoreCanceled(l.Loop.Run(gctx))
	})
	g.Go(l.Server.Start)
	g.Go(func() error {
		<-gctx.Done()
		l.Loop.Close()
		if l.Bus != nil {
			l.Publisher.Close()
			_ = l.Bus.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return l.Server.Shutdown(shutdownCtx)
	})

	if feedURL != "" {
		client := feed.NewClient(feedURL)
		g.Go(func() error {
			if err := ignoreCanceled(client.Run(gctx, feed.LoopHandler(l.Loop, l.Chart))); err != nil {
				contract.LogWarn("Live feed stopped", err)
			}
			return nil
		})
	}
	if l.Bus != nil {
		g.Go(func() error {
			if err := ignoreCanceled(syncbus.Follow(gctx, l.Bus, l.Loop, l.Chart)); err != nil {
				contract.LogWarn("Crosshair sync stopped", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Run serves series with the configured feed, bus and listener until ctx ends.
func Run(ctx context.Context, cfg *contract.Config, series []schema.Series) error {
	live, err := NewLive(ctx, cfg, series)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "📈 Serving chart %s on %s (bus: %s)\n", live.Chart.ID(), cfg.ListenAddr, cfg.BusBackend)
	return live.Serve(ctx, cfg.FeedURL)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, contract.ErrLoopClosed) {
		return nil
	}
	return err
}
