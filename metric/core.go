package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics (not domain-specific)
type Metrics struct {
	// Connection metrics
	ConnectionState   prometheus.Gauge
	ReconnectAttempts prometheus.Gauge
	ReconnectsTotal   prometheus.Counter
	ConnectionErrors  *prometheus.CounterVec

	// Message metrics
	MessagesReceived *prometheus.CounterVec
	MessagesSent     *prometheus.CounterVec
	DecodeFailures   prometheus.Counter
	UnknownTypes     prometheus.Counter
	DispatchDuration *prometheus.HistogramVec

	// Outbound queue metrics
	QueueDepth   prometheus.Gauge
	QueueDropped prometheus.Counter

	// Heartbeat metrics
	HeartbeatsSent     prometheus.Counter
	HeartbeatsReceived prometheus.Counter

	// Health metrics
	HealthCheckStatus *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// Connection metrics
		ConnectionState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "swarmsync",
				Subsystem: "connection",
				Name:      "state",
				Help: "Connection state " +
					"(0=disconnected, 1=connecting, 2=connected, 3=reconnecting, 4=disconnecting, 5=failed)",
			},
		),

		ReconnectAttempts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "swarmsync",
				Subsystem: "connection",
				Name:      "reconnect_attempts",
				Help:      "Current consecutive reconnect attempt count",
			},
		),

		ReconnectsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "swarmsync",
				Subsystem: "connection",
				Name:      "reconnects_total",
				Help:      "Total number of reconnect attempts scheduled",
			},
		),

		ConnectionErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swarmsync",
				Subsystem: "connection",
				Name:      "errors_total",
				Help:      "Total number of connection-level errors",
			},
			[]string{"class"},
		),

		// Message metrics
		MessagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swarmsync",
				Subsystem: "messages",
				Name:      "received_total",
				Help:      "Total number of envelopes received",
			},
			[]string{"type"},
		),

		MessagesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swarmsync",
				Subsystem: "messages",
				Name:      "sent_total",
				Help:      "Total number of envelopes transmitted",
			},
			[]string{"type"},
		),

		DecodeFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "swarmsync",
				Subsystem: "messages",
				Name:      "decode_failures_total",
				Help:      "Total number of inbound frames that failed to decode or validate",
			},
		),

		UnknownTypes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "swarmsync",
				Subsystem: "messages",
				Name:      "unknown_types_total",
				Help:      "Total number of envelopes with an unrecognized type tag",
			},
		),

		DispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "swarmsync",
				Subsystem: "messages",
				Name:      "dispatch_duration_seconds",
				Help:      "Envelope handler execution time in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),

		// Outbound queue metrics
		QueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "swarmsync",
				Subsystem: "queue",
				Name:      "depth",
				Help:      "Current number of envelopes waiting in the outbound queue",
			},
		),

		QueueDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "swarmsync",
				Subsystem: "queue",
				Name:      "dropped_total",
				Help:      "Total number of queued envelopes evicted at capacity",
			},
		),

		// Heartbeat metrics
		HeartbeatsSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "swarmsync",
				Subsystem: "heartbeat",
				Name:      "sent_total",
				Help:      "Total number of heartbeats sent",
			},
		),

		HeartbeatsReceived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "swarmsync",
				Subsystem: "heartbeat",
				Name:      "received_total",
				Help:      "Total number of server heartbeats received",
			},
		),

		// Health metrics
		HealthCheckStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "swarmsync",
				Subsystem: "health",
				Name:      "status",
				Help:      "Health check status (0=unhealthy, 1=healthy)",
			},
			[]string{"component"},
		),
	}
}

// RecordConnectionState updates the connection state gauge
func (c *Metrics) RecordConnectionState(state int) {
	c.ConnectionState.Set(float64(state))
}

// RecordReconnectAttempts updates the consecutive attempt gauge
func (c *Metrics) RecordReconnectAttempts(attempts int) {
	c.ReconnectAttempts.Set(float64(attempts))
}

// RecordReconnectScheduled increments the reconnect counter
func (c *Metrics) RecordReconnectScheduled() {
	c.ReconnectsTotal.Inc()
}

// RecordConnectionError increments the connection error counter
func (c *Metrics) RecordConnectionError(class string) {
	c.ConnectionErrors.WithLabelValues(class).Inc()
}

// RecordMessageReceived increments the received envelope counter
func (c *Metrics) RecordMessageReceived(messageType string) {
	c.MessagesReceived.WithLabelValues(messageType).Inc()
}

// RecordMessageSent increments the transmitted envelope counter
func (c *Metrics) RecordMessageSent(messageType string) {
	c.MessagesSent.WithLabelValues(messageType).Inc()
}

// RecordDecodeFailure increments the decode failure counter
func (c *Metrics) RecordDecodeFailure() {
	c.DecodeFailures.Inc()
}

// RecordUnknownType increments the unknown type counter
func (c *Metrics) RecordUnknownType() {
	c.UnknownTypes.Inc()
}

// RecordDispatchDuration records handler execution time
func (c *Metrics) RecordDispatchDuration(messageType string, duration time.Duration) {
	c.DispatchDuration.WithLabelValues(messageType).Observe(duration.Seconds())
}

// RecordQueueDepth updates the outbound queue depth gauge
func (c *Metrics) RecordQueueDepth(depth int) {
	c.QueueDepth.Set(float64(depth))
}

// RecordQueueDrop increments the queue eviction counter
func (c *Metrics) RecordQueueDrop() {
	c.QueueDropped.Inc()
}

// RecordHeartbeatSent increments the sent heartbeat counter
func (c *Metrics) RecordHeartbeatSent() {
	c.HeartbeatsSent.Inc()
}

// RecordHeartbeatReceived increments the received heartbeat counter
func (c *Metrics) RecordHeartbeatReceived() {
	c.HeartbeatsReceived.Inc()
}

// RecordHealthStatus updates health check status
func (c *Metrics) RecordHealthStatus(component string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	c.HealthCheckStatus.WithLabelValues(component).Set(value)
}
