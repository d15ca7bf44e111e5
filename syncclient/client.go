package syncclient

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/c360/swarmsync/errors"
	"github.com/c360/swarmsync/metric"
	"github.com/c360/swarmsync/orchestration"
	"github.com/c360/swarmsync/pkg/buffer"
	"github.com/c360/swarmsync/pkg/retry"
	"github.com/c360/swarmsync/protocol"
)

// ErrorSink receives failure notifications from the client. All methods are
// invoked on the run loop goroutine and must return quickly.
type ErrorSink interface {
	// OnConnectionError reports a transient connection failure. A reconnect
	// is already scheduled; attempt is the upcoming attempt number.
	OnConnectionError(err error, attempt int)

	// OnTerminalFailure reports that the reconnect budget is exhausted. The
	// client is in the failed state and will not retry until RetryConnection
	// is called.
	OnTerminalFailure(err error)

	// OnServerError reports a structured error message from the server.
	OnServerError(e protocol.ServerError)
}

// Handler processes one inbound envelope. Handlers registered with
// WithHandler run on the run loop goroutine after the client's own handling.
type Handler func(env protocol.Envelope)

// Client is a streaming state-sync client. One goroutine, the run loop, owns
// every lifecycle decision; public methods hand it work through channels and
// never mutate connection state themselves.
type Client struct {
	endpoint string

	// Configuration, fixed after New.
	credential        string
	transport         Transport
	codec             protocol.Codec
	store             *orchestration.Store
	sink              ErrorSink
	logger            *slog.Logger
	registry          *metric.MetricsRegistry
	heartbeatInterval time.Duration
	requestTimeout    time.Duration
	backoff           retry.Backoff
	queueCapacity     int
	livenessTimeout   time.Duration
	tlsConfig         *tls.Config
	onStateChange     func(from, to ConnectionState)
	extraHandlers     map[string][]Handler
	handlers          map[string][]Handler

	metrics *clientMetrics
	queue   buffer.Buffer[protocol.Envelope]

	// Run loop plumbing.
	events      chan any
	wake        chan struct{}
	stopped     chan struct{}
	transitions chan stateTransition
	cancelLoop  context.CancelFunc

	lifecycleMu sync.Mutex
	started     bool
	closed      bool

	// Observable snapshot. Written only by the run loop.
	mu                 sync.RWMutex
	state              ConnectionState
	lastErr            error
	attempts           int
	sessionID          string
	connectedAt        time.Time
	lastServerActivity time.Time
	startedAt          time.Time

	// Run loop private state. Touched by no other goroutine.
	conn                 Conn
	gen                  uint64
	initialDataRequested bool
	pending              *protocol.Envelope
	heartbeat            *time.Ticker
	reconnectTimer       *time.Timer
	livenessTimer        *time.Timer
}

// Loop events.
type (
	connectRequest    struct{ viaRetry bool }
	disconnectRequest struct{ done chan struct{} }
	dismissRequest    struct{}

	dialResult struct {
		gen  uint64
		conn Conn
		err  error
	}

	inboundFrame struct {
		gen  uint64
		data []byte
	}

	readFailure struct {
		gen uint64
		err error
	}

	stateTransition struct {
		from, to ConnectionState
	}
)

// New creates a Client for the given streaming endpoint. The client does
// nothing until Start is called.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "syncclient", "New", "endpoint required")
	}

	c := &Client{
		endpoint:          endpoint,
		codec:             protocol.JSONCodec{},
		logger:            slog.Default(),
		heartbeatInterval: DefaultHeartbeatInterval,
		requestTimeout:    DefaultRequestTimeout,
		backoff:           retry.DefaultBackoff(),
		queueCapacity:     DefaultQueueCapacity,
		extraHandlers:     make(map[string][]Handler),
		events:            make(chan any, 64),
		wake:              make(chan struct{}, 1),
		stopped:           make(chan struct{}),
		state:             StateDisconnected,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.WrapInvalid(err, "syncclient", "New", "apply option")
		}
	}

	if c.store == nil {
		c.store = orchestration.NewStore()
	}
	if c.transport == nil {
		c.transport = &WebSocketTransport{
			HandshakeTimeout: c.requestTimeout,
			WriteTimeout:     c.requestTimeout,
			TLSConfig:        c.tlsConfig,
		}
	}

	var err error
	c.metrics, err = newClientMetrics(c.registry)
	if err != nil {
		return nil, errors.Wrap(err, "syncclient", "New", "register metrics")
	}

	queueOpts := []buffer.Option[protocol.Envelope]{
		buffer.WithOverflowPolicy[protocol.Envelope](buffer.DropOldest),
	}
	if c.registry != nil {
		queueOpts = append(queueOpts, buffer.WithMetrics[protocol.Envelope](c.registry, "outbound_queue"))
	}
	c.queue, err = buffer.NewCircularBuffer(c.queueCapacity, queueOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "syncclient", "New", "create outbound queue")
	}

	c.buildHandlers()
	return c, nil
}

// Start launches the run loop. Cancelling ctx stops the client the same way
// Stop does.
func (c *Client) Start(ctx context.Context) error {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	if c.closed {
		return errors.WrapInvalid(errors.ErrClientClosed, "syncclient", "Start", "start rejected")
	}
	if c.started {
		return errors.WrapInvalid(errors.ErrAlreadyStarted, "syncclient", "Start", "start rejected")
	}
	c.started = true

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancelLoop = cancel

	c.mu.Lock()
	c.startedAt = time.Now()
	c.mu.Unlock()

	if c.onStateChange != nil {
		c.transitions = make(chan stateTransition, 64)
		go c.dispatchTransitions()
	}

	go c.run(loopCtx)
	return nil
}

// Stop disconnects, stops the run loop, and waits up to timeout for it to
// finish. Further Send calls fail after Stop.
func (c *Client) Stop(timeout time.Duration) error {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return errors.WrapInvalid(errors.ErrNotStarted, "syncclient", "Stop", "stop rejected")
	}
	alreadyClosed := c.closed
	c.closed = true
	cancel := c.cancelLoop
	c.lifecycleMu.Unlock()

	if !alreadyClosed {
		cancel()
	}

	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	select {
	case <-c.stopped:
		return nil
	case <-time.After(timeout):
		return errors.WrapTransient(errors.ErrConnectionTimeout, "syncclient", "Stop", "wait for run loop")
	}
}

// Done is closed when the run loop has fully stopped.
func (c *Client) Done() <-chan struct{} {
	return c.stopped
}

// Connect asks the run loop to open a connection. It is a no-op unless the
// client is at rest (disconnected or failed).
func (c *Client) Connect() {
	c.post(connectRequest{})
}

// RetryConnection clears the recorded error and connects again. This is the
// one way out of the terminal failed state.
func (c *Client) RetryConnection() {
	c.post(connectRequest{viaRetry: true})
}

// Disconnect tears the connection down and disables reconnection. It blocks
// until the run loop has processed the teardown. Idempotent and safe from
// any state.
func (c *Client) Disconnect() {
	c.lifecycleMu.Lock()
	started := c.started
	c.lifecycleMu.Unlock()
	if !started {
		return
	}

	done := make(chan struct{})
	select {
	case c.events <- disconnectRequest{done: done}:
		select {
		case <-done:
		case <-c.stopped:
		}
	case <-c.stopped:
	}
}

// DismissError clears the recorded last error without touching the
// connection.
func (c *Client) DismissError() {
	c.post(dismissRequest{})
}

// Send queues an envelope for delivery. When connected, delivery is
// immediate; when not, the envelope waits in the outbound queue, where the
// oldest entry is dropped once the queue is full. Sending while disconnected
// is not an error.
func (c *Client) Send(env protocol.Envelope) error {
	if err := c.queue.Write(env); err != nil {
		return errors.Wrap(err, "syncclient", "Send", "enqueue envelope")
	}
	c.signalWake()
	return nil
}

// Store returns the reconciled state store.
func (c *Client) Store() *orchestration.Store {
	return c.store
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConnected reports whether the client is in the connected state.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// LastError returns the most recent connection-level error, or nil after a
// successful connect or DismissError.
func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// ReconnectAttempts returns the current reconnect attempt count. It resets
// to zero once the server confirms the session.
func (c *Client) ReconnectAttempts() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attempts
}

func (c *Client) post(ev any) {
	select {
	case c.events <- ev:
	case <-c.stopped:
		// The loop is gone; release any connection the event carries.
		if res, ok := ev.(dialResult); ok && res.conn != nil {
			_ = res.conn.Close("client stopped")
		}
	}
}

func (c *Client) signalWake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// run is the single-writer loop. Every state transition, every store
// mutation, and every frame dispatch happens here.
func (c *Client) run(ctx context.Context) {
	defer close(c.stopped)

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return

		case ev := <-c.events:
			c.handleEvent(ctx, ev)

		case <-c.wake:
			c.drainQueue()

		case <-tickerC(c.heartbeat):
			c.sendHeartbeat()

		case <-timerC(c.reconnectTimer):
			c.reconnectTimer = nil
			c.setState(StateConnecting)
			c.beginDial(ctx)

		case <-timerC(c.livenessTimer):
			c.livenessTimer = nil
			c.handleLivenessExpired()
		}
	}
}

func (c *Client) handleEvent(ctx context.Context, ev any) {
	switch e := ev.(type) {
	case connectRequest:
		c.handleConnect(ctx, e)
	case disconnectRequest:
		c.performDisconnect("client disconnect")
		close(e.done)
	case dismissRequest:
		c.setLastError(nil)
	case dialResult:
		c.handleDialResult(e)
	case inboundFrame:
		c.handleFrame(e)
	case readFailure:
		if e.gen == c.gen {
			c.handleConnectionError(e.err)
		}
	default:
		c.logger.Error("Unknown loop event", "event", ev)
	}
}

func (c *Client) shutdown() {
	c.performDisconnect("client stopping")
	_ = c.queue.Close()
	if c.transitions != nil {
		close(c.transitions)
	}
}

func (c *Client) handleConnect(ctx context.Context, req connectRequest) {
	state := c.State()
	if !state.CanDial() {
		c.logger.Debug("Connect ignored", "state", state)
		return
	}

	if req.viaRetry {
		c.logger.Info("Manual retry requested")
	}
	c.setLastError(nil)
	c.setAttempts(0)
	c.setState(StateConnecting)
	c.beginDial(ctx)
}

// beginDial starts a dial on a helper goroutine so the loop never blocks on
// network I/O. The result comes back as an event tagged with the connection
// generation; stale results are discarded.
func (c *Client) beginDial(ctx context.Context) {
	c.gen++
	gen := c.gen
	headers := c.buildHeaders()

	go func() {
		dialCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()

		conn, err := c.transport.Dial(dialCtx, c.endpoint, headers)
		c.post(dialResult{gen: gen, conn: conn, err: err})
	}()
}

func (c *Client) buildHeaders() http.Header {
	headers := http.Header{}
	headers.Set(serviceTypeHeader, serviceTypeValue)
	headers.Set(apiVersionHeader, apiVersionValue)
	if c.credential != "" {
		headers.Set("Authorization", "Bearer "+c.credential)
	}
	return headers
}

func (c *Client) handleDialResult(res dialResult) {
	if res.gen != c.gen {
		if res.conn != nil {
			_ = res.conn.Close("superseded connection")
		}
		return
	}
	if c.State() != StateConnecting {
		// Disconnect won the race against the dial.
		if res.conn != nil {
			_ = res.conn.Close("connection no longer wanted")
		}
		return
	}

	if res.err != nil {
		c.handleConnectionError(res.err)
		return
	}

	c.conn = res.conn
	c.initialDataRequested = false
	c.setState(StateConnected)
	if c.metrics != nil {
		c.metrics.connectionsTotal.Inc()
	}
	c.logger.Info("Connected", "endpoint", c.endpoint)

	c.startHeartbeat()
	c.startLiveness()
	go c.readPump(res.gen, res.conn)

	c.drainQueue()
}

// readPump forwards frames and the terminal read error to the loop. One pump
// runs per live connection; the generation tag lets the loop ignore pumps
// that outlive their connection.
func (c *Client) readPump(gen uint64, conn Conn) {
	for {
		data, err := conn.Read()
		if err != nil {
			c.post(readFailure{gen: gen, err: err})
			return
		}
		c.post(inboundFrame{gen: gen, data: data})
	}
}

func (c *Client) handleFrame(f inboundFrame) {
	if f.gen != c.gen {
		return
	}

	c.noteServerActivity()

	env, err := c.codec.Decode(f.data)
	if err != nil {
		// One corrupt frame never interrupts the stream.
		c.logger.Warn("Dropping malformed frame", "error", err)
		c.metrics.recordDecodeFailure("envelope")
		return
	}

	c.metrics.recordReceived(env.Type)
	c.dispatch(env)
}

// handleConnectionError is the single funnel for dial failures, read
// failures, write failures, and liveness expiry. It records the error,
// notifies the sink, and either schedules the one pending reconnect timer or
// declares terminal failure.
func (c *Client) handleConnectionError(err error) {
	switch c.State() {
	case StateDisconnecting, StateDisconnected, StateFailed:
		// Client-initiated teardown or already settled.
		return
	}

	c.setLastError(err)
	c.closeConn("connection error")
	c.gen++ // events still arriving from the dead connection are stale now
	c.stopHeartbeat()
	c.stopLiveness()

	next := c.ReconnectAttempts() + 1
	if c.backoff.Exhausted(next) {
		terminal := errors.WrapFatal(errors.ErrAttemptsExhausted, "syncclient", "reconnect", "give up after max attempts")
		c.setLastError(terminal)
		c.setState(StateFailed)
		if c.metrics != nil {
			c.metrics.terminalFailures.Inc()
		}
		c.logger.Error("Reconnect attempts exhausted", "attempts", next-1, "error", err)
		if c.sink != nil {
			c.sink.OnTerminalFailure(terminal)
		}
		return
	}

	c.setAttempts(next)
	if c.metrics != nil {
		c.metrics.reconnectAttempts.Inc()
	}
	c.setState(StateReconnecting)

	delay := c.backoff.Delay(next)
	c.logger.Warn("Connection lost, scheduling reconnect",
		"attempt", next,
		"delay", delay,
		"error", err,
	)
	if c.sink != nil {
		c.sink.OnConnectionError(err, next)
	}

	c.stopReconnectTimer()
	c.reconnectTimer = time.NewTimer(delay)
}

// performDisconnect is the only path that ends in disconnected without
// scheduling a reconnect. Safe from any state.
func (c *Client) performDisconnect(reason string) {
	if c.State() == StateDisconnected && c.conn == nil && c.reconnectTimer == nil {
		return
	}

	c.setState(StateDisconnecting)
	c.stopReconnectTimer()
	c.stopHeartbeat()
	c.stopLiveness()
	c.closeConn(reason)
	c.gen++ // invalidate in-flight dials and pumps
	c.setState(StateDisconnected)
}

func (c *Client) closeConn(reason string) {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(reason); err != nil {
		c.logger.Debug("Connection close failed", "error", err)
	}
	c.conn = nil
}

// drainQueue transmits queued envelopes FIFO while connected. A frame that
// fails to transmit is held back and leads the next drain, so a mid-drain
// connection loss leaves everything queued in order.
func (c *Client) drainQueue() {
	for c.State() == StateConnected && c.conn != nil {
		var env protocol.Envelope
		if c.pending != nil {
			env = *c.pending
		} else {
			item, ok := c.queue.Read()
			if !ok {
				return
			}
			c.pending = &item
			env = item
		}

		frame, err := c.codec.Encode(env)
		if err != nil {
			c.logger.Error("Dropping unencodable envelope", "type", env.Type, "error", err)
			c.pending = nil
			continue
		}

		if err := c.conn.Write(frame); err != nil {
			c.handleConnectionError(err)
			return
		}

		c.pending = nil
		c.metrics.recordSent(env.Type)
	}
}

func (c *Client) sendHeartbeat() {
	if c.State() != StateConnected {
		return
	}
	env, err := protocol.NewEnvelope(protocol.TypeHeartbeat, nil)
	if err != nil {
		return
	}
	if c.transmitNow(env) && c.metrics != nil {
		c.metrics.heartbeatsSent.Inc()
	}
}

// transmitNow encodes and writes one envelope directly, bypassing the queue.
// Used for liveness traffic that must not be replayed on a later connection.
func (c *Client) transmitNow(env protocol.Envelope) bool {
	if c.conn == nil {
		return false
	}
	frame, err := c.codec.Encode(env)
	if err != nil {
		c.logger.Error("Dropping unencodable envelope", "type", env.Type, "error", err)
		return false
	}
	if err := c.conn.Write(frame); err != nil {
		c.handleConnectionError(err)
		return false
	}
	c.metrics.recordSent(env.Type)
	return true
}

func (c *Client) handleLivenessExpired() {
	if c.State() != StateConnected {
		return
	}
	c.logger.Warn("No server activity within liveness timeout", "timeout", c.livenessTimeout)
	c.handleConnectionError(
		errors.WrapTransient(errors.ErrLivenessExpired, "syncclient", "watchdog", "await server activity"),
	)
}

func (c *Client) startHeartbeat() {
	c.stopHeartbeat()
	c.heartbeat = time.NewTicker(c.heartbeatInterval)
}

func (c *Client) stopHeartbeat() {
	if c.heartbeat != nil {
		c.heartbeat.Stop()
		c.heartbeat = nil
	}
}

func (c *Client) startLiveness() {
	c.stopLiveness()
	if c.livenessTimeout > 0 {
		c.livenessTimer = time.NewTimer(c.livenessTimeout)
	}
}

func (c *Client) stopLiveness() {
	if c.livenessTimer != nil {
		c.livenessTimer.Stop()
		c.livenessTimer = nil
	}
}

func (c *Client) resetLiveness() {
	if c.livenessTimer == nil {
		return
	}
	if !c.livenessTimer.Stop() {
		select {
		case <-c.livenessTimer.C:
		default:
		}
	}
	c.livenessTimer.Reset(c.livenessTimeout)
}

func (c *Client) stopReconnectTimer() {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
}

func (c *Client) noteServerActivity() {
	c.mu.Lock()
	c.lastServerActivity = time.Now()
	c.mu.Unlock()
	c.resetLiveness()
}

func (c *Client) setState(next ConnectionState) {
	c.mu.Lock()
	prev := c.state
	if prev == next {
		c.mu.Unlock()
		return
	}
	c.state = next
	if next == StateConnected {
		c.connectedAt = time.Now()
	}
	c.mu.Unlock()

	c.metrics.recordState(next)
	c.logger.Debug("Connection state changed", "from", prev, "to", next)

	if c.transitions != nil {
		select {
		case c.transitions <- stateTransition{from: prev, to: next}:
		default:
			c.logger.Warn("State change callback too slow, dropping transition", "from", prev, "to", next)
		}
	}
}

func (c *Client) setLastError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *Client) setAttempts(n int) {
	c.mu.Lock()
	c.attempts = n
	c.mu.Unlock()
}

func (c *Client) setSessionID(id string) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

// dispatchTransitions delivers state changes to the callback in transition
// order, off the run loop.
func (c *Client) dispatchTransitions() {
	for tr := range c.transitions {
		c.onStateChange(tr.from, tr.to)
	}
}

func tickerC(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
