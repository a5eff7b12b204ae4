package syncbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// RedisBus carries sync messages as JSON on one Redis pub/sub channel.
// Publishes go through a circuit breaker so a dead Redis fails fast.
type RedisBus struct {
	client  *redis.Client
	channel string
	breaker *gobreaker.CircuitBreaker
}

var _ contract.CrosshairBus = &RedisBus{} // Compile-time check

// DialRedisBus connects to addr and checks the connection.
func DialRedisBus(ctx context.Context, addr, channel string) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		DialTimeout:           5 * time.Second,
		ReadTimeout:           3 * time.Second,
		WriteTimeout:          3 * time.Second,
		ContextTimeoutEnabled: true,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisBus(client, channel), nil
}

// NewRedisBus wraps an existing client. The bus owns the client after this call.
func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	if channel == "" {
		channel = contract.DefaultBusChannel
	}
	return &RedisBus{
		client:  client,
		channel: channel,
		breaker: newBreaker("redis-bus:" + channel),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

// Publish sends msg to every subscriber of the channel.
func (b *RedisBus) Publish(ctx context.Context, msg schema.SyncMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode sync message: %w", err)
	}
	_, err = b.breaker.Execute(func() (any, error) {
		return nil, b.client.Publish(ctx, b.channel, data).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", b.channel, err)
	}
	return nil
}

// Subscribe waits for the subscription to be confirmed, then forwards decoded
// messages until ctx ends or the bus closes.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan schema.SyncMessage, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan schema.SyncMessage, subscriberBuffer)
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()
		in := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-in:
				if !ok {
					return
				}
				var msg schema.SyncMessage
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					contract.LogWarn("Skipping malformed sync message", err)
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes the client, which also ends every subscription.
func (b *RedisBus) Close() error {
	return b.client.Close()
}

// BreakerState reports the publish breaker state: closed, half-open or open.
func (b *RedisBus) BreakerState() string {
	return b.breaker.State().String()
}
