package core

import (
	"context"
	"sync"

	"github.com/chartwerk/line-chart/internal/contract"
)

// EventLoop runs actions one at a time, in arrival order, on the goroutine that calls Run.
// Producers on other goroutines (feeds, sync buses, HTTP handlers) post onto it
// instead of touching a chart directly.
type EventLoop struct {
	actions   chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewEventLoop creates a loop with room for buffer pending actions.
func NewEventLoop(buffer int) *EventLoop {
	return &EventLoop{
		actions: make(chan func(), buffer),
		done:    make(chan struct{}),
	}
}

// Run executes posted actions until ctx ends or Close is called.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.actions:
			fn()
		}
	}
}

// Post enqueues fn, blocking while the queue is full.
func (l *EventLoop) Post(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return contract.ErrLoopClosed
	default:
	}
	select {
	case l.actions <- fn:
		return nil
	case <-l.done:
		return contract.ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop and waits for its result.
func (l *EventLoop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if err := l.Post(ctx, func() { result <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-l.done:
		return contract.ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop. Pending actions may be dropped.
func (l *EventLoop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
