package syncclient

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360/swarmsync/metric"
	"github.com/c360/swarmsync/orchestration"
	"github.com/c360/swarmsync/pkg/retry"
	"github.com/c360/swarmsync/protocol"
)

// Client defaults. Every one of them can be overridden with an Option.
const (
	// DefaultRequestTimeout bounds the dial handshake and each frame write.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultHeartbeatInterval is the client heartbeat period.
	DefaultHeartbeatInterval = 30 * time.Second

	// DefaultQueueCapacity bounds the outbound queue. At capacity the oldest
	// queued envelope is dropped.
	DefaultQueueCapacity = 50
)

// Identification headers sent on every dial.
const (
	serviceTypeHeader = "X-Service-Type"
	serviceTypeValue  = "swarmsync"
	apiVersionHeader  = "X-Api-Version"
	apiVersionValue   = "1.0"
)

// Option is a functional option for configuring the Client.
type Option func(*Client) error

// WithCredential sets the bearer token sent as an Authorization header on
// every dial. An empty token means no auth header.
func WithCredential(token string) Option {
	return func(c *Client) error {
		c.credential = token
		return nil
	}
}

// WithTransport replaces the WebSocket transport, mainly for tests. When a
// custom transport is supplied, WithTLSConfig and WithRequestTimeout no
// longer shape the dial; the transport owns those concerns.
func WithTransport(t Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return fmt.Errorf("transport must not be nil")
		}
		c.transport = t
		return nil
	}
}

// WithCodec replaces the frame codec. Defaults to protocol.JSONCodec.
func WithCodec(codec protocol.Codec) Option {
	return func(c *Client) error {
		if codec == nil {
			return fmt.Errorf("codec must not be nil")
		}
		c.codec = codec
		return nil
	}
}

// WithStore injects a shared state store so other collaborators can read the
// reconciled state the client maintains. Defaults to a fresh store.
func WithStore(store *orchestration.Store) Option {
	return func(c *Client) error {
		if store == nil {
			return fmt.Errorf("store must not be nil")
		}
		c.store = store
		return nil
	}
}

// WithErrorSink sets the collaborator notified of connection errors,
// terminal failures, and structured server errors.
func WithErrorSink(sink ErrorSink) Option {
	return func(c *Client) error {
		c.sink = sink
		return nil
	}
}

// WithLogger sets a custom structured logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics enables Prometheus instrumentation on the given registry.
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(c *Client) error {
		c.registry = registry
		return nil
	}
}

// WithHeartbeatInterval sets the client heartbeat period.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			d = DefaultHeartbeatInterval
		}
		c.heartbeatInterval = d
		return nil
	}
}

// WithRequestTimeout bounds the dial handshake and each frame write.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			d = DefaultRequestTimeout
		}
		c.requestTimeout = d
		return nil
	}
}

// WithReconnectPolicy sets the reconnect backoff: delays double from base,
// and maxAttempts failed attempts in a row put the client in the terminal
// failed state. maxAttempts <= 0 means retry forever.
func WithReconnectPolicy(base time.Duration, maxAttempts int) Option {
	return func(c *Client) error {
		if base <= 0 {
			return fmt.Errorf("reconnect base delay must be positive, got %v", base)
		}
		c.backoff = retry.Backoff{Base: base, Factor: 2.0, MaxAttempts: maxAttempts}
		return nil
	}
}

// WithQueueCapacity bounds the outbound queue.
func WithQueueCapacity(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			n = DefaultQueueCapacity
		}
		c.queueCapacity = n
		return nil
	}
}

// WithLivenessTimeout enables the receive watchdog: if no frame arrives for
// the given duration while connected, the connection is treated as dead and
// the reconnect policy kicks in. Zero disables the watchdog, which is the
// default; liveness is then inferred from transport errors alone.
func WithLivenessTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			d = 0
		}
		c.livenessTimeout = d
		return nil
	}
}

// WithTLSConfig sets the TLS configuration used by the default WebSocket
// transport for wss endpoints. Ignored when WithTransport is supplied.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) error {
		c.tlsConfig = cfg
		return nil
	}
}

// WithStateChangeCallback registers a callback invoked on every connection
// state transition. Callbacks run on a dedicated goroutine in transition
// order and must not call back into the client synchronously.
func WithStateChangeCallback(fn func(from, to ConnectionState)) Option {
	return func(c *Client) error {
		c.onStateChange = fn
		return nil
	}
}

// WithHandler registers an additional handler for an inbound message tag,
// called after the client's own handling of that tag. Handlers run on the
// run loop goroutine and must return quickly.
func WithHandler(msgType string, fn Handler) Option {
	return func(c *Client) error {
		if msgType == "" {
			return fmt.Errorf("handler message type must not be empty")
		}
		if fn == nil {
			return fmt.Errorf("handler func must not be nil")
		}
		c.extraHandlers[msgType] = append(c.extraHandlers[msgType], fn)
		return nil
	}
}
