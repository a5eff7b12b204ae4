// Package feed streams live datapoints into a chart from a websocket endpoint or JSON lines.
package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/gorilla/websocket"
)

// Tick is one frame of a live feed: values[i] goes to series i.
type Tick struct {
	Values []schema.Datapoint `json:"values"`
}

// Handler applies one tick. Returning contract.ErrLoopClosed or a context error stops the feed;
// any other error is logged and the feed continues.
type Handler func(ctx context.Context, tick Tick) error

// MalformedFunc is told about every frame or line that is not a valid tick.
// Malformed input is logged and skipped either way.
type MalformedFunc func(err error)

// ErrMalformedTick wraps the decode error of a frame or line that is not a tick.
var ErrMalformedTick = errors.New("invalid tick")

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultPongWait         = 60 * time.Second
	maxLineBytes            = 1 << 20
)

// Client reads ticks from a websocket endpoint.
type Client struct {
	url      string
	dialer   *websocket.Dialer
	header   http.Header
	pongWait time.Duration

	// OnMalformed, when set, is called for each skipped frame.
	OnMalformed MalformedFunc

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates a client for a ws:// or wss:// URL.
func NewClient(url string) *Client {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = defaultHandshakeTimeout
	return &Client{
		url:      url,
		dialer:   &dialer,
		header:   http.Header{"User-Agent": []string{"linechart-feed"}},
		pongWait: defaultPongWait,
	}
}

// Run connects and feeds every tick to handle until the server closes the
// connection, ctx ends or handle asks to stop. A normal close returns nil.
func (c *Client) Run(ctx context.Context, handle Handler) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		return fmt.Errorf("failed to connect to feed %s: %w", c.url, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer c.Close()

	// Unblock ReadMessage when ctx ends.
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	_ = conn.SetReadDeadline(time.Now().Add(c.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("feed read error: %w", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(c.pongWait))
		if messageType != websocket.TextMessage {
			continue
		}

		tick, ok := decodeTick(data, "feed frame", c.OnMalformed)
		if !ok {
			continue
		}
		if stop, err := apply(ctx, handle, tick); stop {
			return err
		}
	}
}

// Close closes the current connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// ReadLines feeds one tick per non-empty JSON line of r until EOF. Lines that are
// not valid ticks are skipped and reported to onMalformed, which may be nil.
func ReadLines(ctx context.Context, r io.Reader, handle Handler, onMalformed MalformedFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		tick, ok := decodeTick([]byte(text), fmt.Sprintf("line %d", line), onMalformed)
		if !ok {
			continue
		}
		if stop, err := apply(ctx, handle, tick); stop {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read ticks: %w", err)
	}
	return nil
}

// LoopHandler appends each tick to chart on loop, so the chart is only touched by the loop goroutine.
func LoopHandler(loop *core.EventLoop, chart *core.LineChart) Handler {
	return func(ctx context.Context, tick Tick) error {
		return loop.Do(ctx, func() error {
			_, err := chart.AppendData(tick.Values)
			return err
		})
	}
}

// ChartHandler appends each tick to chart directly. Only for single-goroutine callers.
func ChartHandler(chart *core.LineChart) Handler {
	return func(_ context.Context, tick Tick) error {
		_, err := chart.AppendData(tick.Values)
		return err
	}
}

func decodeTick(data []byte, where string, onMalformed MalformedFunc) (Tick, bool) {
	var tick Tick
	if err := json.Unmarshal(data, &tick); err != nil {
		err = fmt.Errorf("%s: %w: %w", where, ErrMalformedTick, err)
		contract.LogWarn("Skipping malformed tick", err)
		if onMalformed != nil {
			onMalformed(err)
		}
		return Tick{}, false
	}
	return tick, true
}

func apply(ctx context.Context, handle Handler, tick Tick) (stop bool, err error) {
	err = handle(ctx, tick)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, contract.ErrLoopClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true, err
	default:
		contract.LogWarn("Dropped feed tick", err)
		return false, nil
	}
}
