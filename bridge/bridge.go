// Package bridge republishes the sync client's inbound update stream onto
// NATS so other services can consume orchestration state changes without
// holding their own connection to the backend.
//
// The bridge is wired into a client as a set of per-tag extension handlers:
//
//	b, _ := bridge.New("nats://localhost:4222")
//	client, _ := syncclient.New(endpoint,
//		syncclient.WithHandler(protocol.TypeAgentStatusUpdate, b.Republish),
//		syncclient.WithHandler(protocol.TypeWorkflowUpdate, b.Republish),
//	)
//
// Each envelope is published to <prefix>.<type> with a unique Nats-Msg-Id
// header so downstream JetStream consumers can deduplicate.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"github.com/c360/swarmsync/errors"
	"github.com/c360/swarmsync/metric"
	"github.com/c360/swarmsync/pkg/retry"
	"github.com/c360/swarmsync/protocol"
)

const (
	// defaultSubjectPrefix is prepended to the envelope type to form the
	// publish subject.
	defaultSubjectPrefix = "swarm.sync"

	// msgIDHeader carries the per-message UUID used for consumer dedup.
	msgIDHeader = "Nats-Msg-Id"

	reconnectWait  = 2 * time.Second
	connectTimeout = 5 * time.Second
)

// Publisher is the NATS surface the bridge publishes through. *nats.Conn
// satisfies it.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// Bridge forwards envelopes from the sync client onto NATS subjects.
// Republish is safe to call concurrently and never blocks on a slow or
// absent NATS connection.
type Bridge struct {
	url          string
	prefix       string
	name         string
	token        string
	logger       *slog.Logger
	registry     *metric.MetricsRegistry
	metrics      *bridgeMetrics
	limiter      *rate.Limiter
	connectRetry retry.Config

	mu     sync.Mutex
	conn   *nats.Conn
	pub    Publisher
	closed bool
}

// New creates a bridge targeting the given NATS URL. The connection is not
// established until Connect is called.
func New(url string, options ...Option) (*Bridge, error) {
	if url == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "bridge", "New", "validate NATS URL")
	}

	b := &Bridge{
		url:          url,
		prefix:       defaultSubjectPrefix,
		logger:       slog.Default(),
		connectRetry: retry.DefaultConfig(),
	}

	for _, opt := range options {
		if err := opt(b); err != nil {
			return nil, errors.WrapInvalid(err, "bridge", "New", "apply option")
		}
	}

	metrics, err := newBridgeMetrics(b.registry)
	if err != nil {
		return nil, errors.Wrap(err, "bridge", "New", "register metrics")
	}
	b.metrics = metrics

	return b, nil
}

// Connect establishes the NATS connection, retrying transient failures per
// the configured policy. Once connected the underlying client reconnects on
// its own; Connect does not need to be called again after a network blip.
func (b *Bridge) Connect(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errors.WrapInvalid(errors.ErrClientClosed, "bridge", "Connect", "use closed bridge")
	}
	if b.conn != nil {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	var conn *nats.Conn
	err := retry.Do(ctx, b.connectRetry, func() error {
		c, err := nats.Connect(b.url, b.connectionOptions()...)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return errors.WrapTransient(err, "bridge", "Connect", "establish NATS connection")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		conn.Close()
		return errors.WrapInvalid(errors.ErrClientClosed, "bridge", "Connect", "use closed bridge")
	}
	b.conn = conn
	b.pub = conn
	b.metrics.recordConnect()
	b.logger.Info("Bridge connected to NATS", "url", conn.ConnectedUrl())
	return nil
}

// connectionOptions builds NATS connection options for the bridge.
func (b *Bridge) connectionOptions() []nats.Option {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(reconnectWait),
		nats.Timeout(connectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				b.logger.Warn("NATS connection lost", "error", err)
			}
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			b.logger.Info("NATS connection restored", "url", conn.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			b.logger.Debug("NATS connection closed")
		}),
	}

	if b.name != "" {
		opts = append(opts, nats.Name(b.name))
	}
	if b.token != "" {
		opts = append(opts, nats.Token(b.token))
	}

	return opts
}

// Republish publishes one envelope to <prefix>.<type>. Its signature matches
// the sync client's handler type so a method value can be registered
// directly. Failures are logged and counted, never surfaced to the client's
// dispatch loop.
func (b *Bridge) Republish(env protocol.Envelope) {
	b.mu.Lock()
	pub := b.pub
	b.mu.Unlock()
	if pub == nil {
		return
	}

	if b.limiter != nil && !b.limiter.Allow() {
		b.metrics.recordRateLimited(env.Type)
		b.logger.Debug("Dropping envelope, publish rate exceeded", "type", env.Type)
		return
	}

	data, err := json.Marshal(env)
	if err != nil {
		b.metrics.recordFailure(env.Type)
		b.logger.Warn("Failed to encode envelope for republish",
			"type", env.Type,
			"error", err)
		return
	}

	msg := nats.NewMsg(b.prefix + "." + env.Type)
	msg.Header.Set(msgIDHeader, uuid.NewString())
	msg.Data = data

	if err := pub.PublishMsg(msg); err != nil {
		b.metrics.recordFailure(env.Type)
		b.logger.Warn("Failed to republish envelope",
			"type", env.Type,
			"subject", msg.Subject,
			"error", err)
		return
	}

	b.metrics.recordPublished(env.Type)
}

// Connected reports whether the underlying NATS connection is live.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil && b.conn.IsConnected()
}

// Stop drains the connection so buffered publishes flush, waiting up to
// timeout before forcing the connection closed. Stop is idempotent.
func (b *Bridge) Stop(timeout time.Duration) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	conn := b.conn
	b.conn = nil
	b.pub = nil
	b.mu.Unlock()

	if conn == nil {
		return nil
	}

	var drainErr error
	drainDone := make(chan error, 1)
	go func() {
		drainDone <- conn.Drain()
	}()

	select {
	case err := <-drainDone:
		if err != nil {
			drainErr = errors.Wrap(err, "bridge", "Stop", "drain connection")
		}
	case <-time.After(timeout):
		drainErr = errors.WrapTransient(
			fmt.Errorf("drain timeout after %v", timeout),
			"bridge", "Stop", "drain connection")
	}
	conn.Close()

	if drainErr != nil {
		b.logger.Warn("Bridge shutdown incomplete", "error", drainErr)
		return drainErr
	}
	b.logger.Info("Bridge stopped")
	return nil
}

// SetPublisher replaces the publish target (for testing).
func (b *Bridge) SetPublisher(pub Publisher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pub = pub
}
