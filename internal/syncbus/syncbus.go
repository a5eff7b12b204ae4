// Package syncbus carries shared crosshair updates between chart instances.
//
// A chart publishes a move when its own crosshair moves and a hide when the pointer
// leaves. Every other chart on the bus mirrors it with RenderSharedCrosshair or
// HideSharedCrosshair. The shared path never publishes, so updates do not echo.
package syncbus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/google/uuid"
)

const (
	subscriberBuffer = 64
	outboxSize       = 64
	publishTimeout   = 2 * time.Second
)

// New builds the bus selected by cfg. NoBus returns nil.
func New(ctx context.Context, cfg *contract.Config) (contract.CrosshairBus, error) {
	switch cfg.BusBackend {
	case schema.MemoryBus, "":
		return NewMemoryBus(), nil
	case schema.RedisBus:
		bus, err := DialRedisBus(ctx, cfg.RedisAddr, cfg.BusChannel)
		if err != nil {
			return nil, err
		}
		return bus, nil
	case schema.NoBus:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported bus backend: %s", cfg.BusBackend)
	}
}

// MemoryBus is an in-process bus. A subscriber that falls behind loses messages
// rather than blocking publishers.
type MemoryBus struct {
	mu     sync.Mutex
	subs   map[chan schema.SyncMessage]struct{}
	closed bool
}

var _ contract.CrosshairBus = &MemoryBus{} // Compile-time check

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[chan schema.SyncMessage]struct{})}
}

// Publish delivers msg to every current subscriber.
func (b *MemoryBus) Publish(ctx context.Context, msg schema.SyncMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("memory bus is closed")
	}
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber until ctx ends or the bus closes.
func (b *MemoryBus) Subscribe(ctx context.Context) (<-chan schema.SyncMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("memory bus is closed")
	}
	ch := make(chan schema.SyncMessage, subscriberBuffer)
	b.subs[ch] = struct{}{}

	context.AfterFunc(ctx, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	})
	return ch, nil
}

// Close closes every subscriber channel.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}

// Publisher turns a chart's own crosshair activity into bus messages.
// Its methods are meant to be wired as core.Callbacks, so they run on the chart's
// event loop and never wait on the transport: messages go to a bounded outbox
// that a background goroutine publishes in order. When the outbox is full the
// oldest message is dropped, so the latest move or hide always goes out.
type Publisher struct {
	bus     contract.CrosshairBus
	origin  string
	now     func() time.Time
	outbox  chan schema.SyncMessage
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	dropped atomic.Int64
}

// NewPublisher creates a publisher that stamps messages with origin, the sending chart ID.
// Close stops its background goroutine.
func NewPublisher(bus contract.CrosshairBus, origin string) *Publisher {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Publisher{
		bus:     bus,
		origin:  origin,
		now:     time.Now,
		outbox:  make(chan schema.SyncMessage, outboxSize),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go p.drain()
	return p
}

// Move publishes the chart's crosshair position.
func (p *Publisher) Move(payload schema.SharedCrosshairPayload) {
	p.enqueue(schema.SyncMove, schema.SharedCoords{X: payload.XValue, Y: payload.YValue})
}

// Hide publishes that the chart's crosshair is gone.
func (p *Publisher) Hide() {
	p.enqueue(schema.SyncHide, schema.SharedCoords{})
}

// Dropped returns how many queued messages were discarded because the outbox was full.
func (p *Publisher) Dropped() int64 { return p.dropped.Load() }

// Close abandons queued messages, cancels an in-flight publish and waits for the
// background goroutine to exit.
func (p *Publisher) Close() {
	p.cancel()
	<-p.stopped
}

// Callbacks wires the publisher into a chart, keeping any host callbacks already set.
func (p *Publisher) Callbacks(base core.Callbacks) core.Callbacks {
	hostMove, hostOut := base.SharedCrosshairMove, base.MouseOut
	base.SharedCrosshairMove = func(payload schema.SharedCrosshairPayload) {
		p.Move(payload)
		if hostMove != nil {
			hostMove(payload)
		}
	}
	base.MouseOut = func() {
		p.Hide()
		if hostOut != nil {
			hostOut()
		}
	}
	return base
}

func (p *Publisher) enqueue(kind schema.SyncKind, coords schema.SharedCoords) {
	msg := schema.SyncMessage{
		ID:        uuid.NewString(),
		Origin:    p.origin,
		Kind:      kind,
		Coords:    coords,
		Timestamp: p.now().UTC(),
	}
	for {
		select {
		case p.outbox <- msg:
			return
		default:
		}
		select {
		case <-p.outbox:
			p.dropped.Add(1)
		default:
		}
	}
}

func (p *Publisher) drain() {
	defer close(p.stopped)
	for {
		select {
		case <-p.ctx.Done():
			return
		case msg := <-p.outbox:
			p.send(msg)
		}
	}
}

func (p *Publisher) send(msg schema.SyncMessage) {
	ctx, cancel := context.WithTimeout(p.ctx, publishTimeout)
	defer cancel()
	if err := p.bus.Publish(ctx, msg); err != nil && p.ctx.Err() == nil {
		contract.LogWarn("Failed to publish crosshair "+string(msg.Kind), err)
	}
}

// Follow mirrors every message from other charts onto chart until ctx ends or the
// subscription closes. Updates run on loop, so chart is only touched by the loop goroutine.
func Follow(ctx context.Context, bus contract.CrosshairBus, loop *core.EventLoop, chart *core.LineChart) error {
	messages, err := bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to crosshair bus: %w", err)
	}
	origin := chart.ID()
	for msg := range messages {
		if msg.Origin == origin {
			continue
		}
		if err := loop.Post(ctx, func() {
			if err := Apply(chart, msg); err != nil {
				contract.LogWarn("Failed to mirror shared crosshair", err)
			}
		}); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Apply mirrors one message onto chart.
func Apply(chart *core.LineChart, msg schema.SyncMessage) error {
	switch msg.Kind {
	case schema.SyncMove:
		return chart.RenderSharedCrosshair(msg.Coords)
	case schema.SyncHide:
		return chart.HideSharedCrosshair()
	default:
		return fmt.Errorf("unknown sync message kind %q", msg.Kind)
	}
}
