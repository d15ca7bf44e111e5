package syncclient

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/swarmsync/metric"
)

type clientMetrics struct {
	connectionState    prometheus.Gauge
	connectionsTotal   prometheus.Counter
	reconnectAttempts  prometheus.Counter
	terminalFailures   prometheus.Counter
	messagesReceived   *prometheus.CounterVec
	messagesSent       *prometheus.CounterVec
	decodeFailures     *prometheus.CounterVec
	heartbeatsSent     prometheus.Counter
	heartbeatsReceived prometheus.Counter
}

// newClientMetrics creates and registers client metrics. Returns nil when no
// registry is configured; call sites nil-check before recording.
func newClientMetrics(registry *metric.MetricsRegistry) (*clientMetrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &clientMetrics{
		connectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swarmsync",
			Subsystem: "client",
			Name:      "connection_state",
			Help:      "Connection state code (0 disconnected, 1 connecting, 2 connected, 3 reconnecting, 4 disconnecting, 5 failed)",
		}),

		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "client",
			Name:      "connections_total",
			Help:      "Total connections successfully opened",
		}),

		reconnectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "client",
			Name:      "reconnect_attempts_total",
			Help:      "Total reconnection attempts",
		}),

		terminalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "client",
			Name:      "terminal_failures_total",
			Help:      "Times the reconnect budget was exhausted",
		}),

		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "client",
			Name:      "messages_received_total",
			Help:      "Total inbound messages by type",
		}, []string{"type"}),

		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "client",
			Name:      "messages_sent_total",
			Help:      "Total outbound messages by type",
		}, []string{"type"}),

		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "client",
			Name:      "decode_failures_total",
			Help:      "Inbound frames or payloads rejected by decoding or validation",
		}, []string{"reason"}),

		heartbeatsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "client",
			Name:      "heartbeats_sent_total",
			Help:      "Heartbeats sent to the server",
		}),

		heartbeatsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "client",
			Name:      "heartbeats_received_total",
			Help:      "Heartbeats received from the server",
		}),
	}

	// Register all metrics
	if err := registry.RegisterGauge("client", "connection_state", m.connectionState); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("client", "connections_total", m.connectionsTotal); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("client", "reconnect_attempts", m.reconnectAttempts); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("client", "terminal_failures", m.terminalFailures); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("client", "messages_received", m.messagesReceived); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("client", "messages_sent", m.messagesSent); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("client", "decode_failures", m.decodeFailures); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("client", "heartbeats_sent", m.heartbeatsSent); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("client", "heartbeats_received", m.heartbeatsReceived); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *clientMetrics) recordState(s ConnectionState) {
	if m == nil {
		return
	}
	m.connectionState.Set(stateCode(s))
}

func (m *clientMetrics) recordReceived(msgType string) {
	if m == nil {
		return
	}
	m.messagesReceived.WithLabelValues(msgType).Inc()
}

func (m *clientMetrics) recordSent(msgType string) {
	if m == nil {
		return
	}
	m.messagesSent.WithLabelValues(msgType).Inc()
}

func (m *clientMetrics) recordDecodeFailure(reason string) {
	if m == nil {
		return
	}
	m.decodeFailures.WithLabelValues(reason).Inc()
}
