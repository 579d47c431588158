package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/config"
	"github.com/iam-santhosh777/jobportal-client/pkg/metrics"
)

type EventType string

const (
	EventNewApplication EventType = "new-application"
	EventJobExpired     EventType = "job-expired"
)

// Event is a single push message from the server.
type Event struct {
	Type EventType       `json:"event"`
	Data json.RawMessage `json:"data"`
}

type Handler func(data json.RawMessage)

// Transport delivers events in server order until closed.
type Transport interface {
	ReadEvent() (*Event, error)
	Close() error
}

type Dialer func(ctx context.Context, endpoint, token string) (Transport, error)

// Channel is the live connection to the push-event server. One channel
// belongs to one authenticated session; screens subscribe per event type
// and the latest subscriber for a type wins. Events are dispatched strictly
// in delivery order.
type Channel struct {
	logger  *zap.Logger
	resolve func() string
	dial    Dialer

	mu       sync.Mutex
	handlers map[EventType]Handler
	conn     Transport
	done     chan struct{}
}

type Option func(*Channel)

func WithDialer(d Dialer) Option {
	return func(c *Channel) { c.dial = d }
}

func WithEndpointResolver(f func() string) Option {
	return func(c *Channel) { c.resolve = f }
}

func NewChannel(logger *zap.Logger, cfg config.Config, opts ...Option) *Channel {
	c := &Channel{
		logger:   logger.Named("realtime"),
		resolve:  cfg.ResolveRealtimeURL,
		dial:     DialWithFallback,
		handlers: map[EventType]Handler{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Connect establishes the live connection. Calling it while connected is a
// no-op: the existing connection is kept. The endpoint is re-resolved on
// every call since the serving origin can differ between build and runtime.
func (c *Channel) Connect(ctx context.Context, token string) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	endpoint := c.resolve()
	conn, err := c.dial(ctx, endpoint, token)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}

	c.mu.Lock()
	if c.conn != nil {
		// lost the race to a concurrent connect
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	metrics.RealtimeConnects.Inc()
	c.logger.Info("connected to realtime endpoint", zap.String("endpoint", endpoint))

	go c.readLoop(conn, done)
	return nil
}

func (c *Channel) readLoop(conn Transport, done chan struct{}) {
	for {
		ev, err := conn.ReadEvent()
		if err != nil {
			select {
			case <-done:
				// deliberate disconnect
			default:
				c.logger.Warn("realtime connection closed", zap.Error(err))
			}
			return
		}
		if ev == nil {
			continue
		}
		metrics.RealtimeEvents.WithLabelValues(string(ev.Type)).Inc()

		c.mu.Lock()
		h := c.handlers[ev.Type]
		c.mu.Unlock()
		if h != nil {
			h(ev.Data)
		}
	}
}

// Disconnect tears the connection down. A subsequent Connect creates a
// fresh connection.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	done := c.done
	c.conn = nil
	c.done = nil
	c.mu.Unlock()

	if conn != nil {
		close(done)
		_ = conn.Close()
		c.logger.Info("disconnected from realtime endpoint")
	}
}

func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// On registers the handler for an event type, replacing any previous one.
func (c *Channel) On(t EventType, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[t] = h
}

func (c *Channel) Off(t EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, t)
}
