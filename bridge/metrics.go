package bridge

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/swarmsync/metric"
)

// bridgeMetrics tracks publish outcomes. A nil receiver is valid and makes
// every record method a no-op, so the bridge can run without a registry.
type bridgeMetrics struct {
	published   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
	connects    prometheus.Counter
}

func newBridgeMetrics(registry *metric.MetricsRegistry) (*bridgeMetrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &bridgeMetrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "bridge",
			Name:      "published_total",
			Help:      "Envelopes republished onto NATS",
		}, []string{"type"}),

		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "bridge",
			Name:      "publish_failures_total",
			Help:      "Envelopes that failed to encode or publish",
		}, []string{"type"}),

		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "bridge",
			Name:      "rate_limited_total",
			Help:      "Envelopes dropped by the publish rate limiter",
		}, []string{"type"}),

		connects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swarmsync",
			Subsystem: "bridge",
			Name:      "connects_total",
			Help:      "Successful NATS connections",
		}),
	}

	// Register all metrics
	if err := registry.RegisterCounterVec("bridge", "published", m.published); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("bridge", "publish_failures", m.failures); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("bridge", "rate_limited", m.rateLimited); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("bridge", "connects", m.connects); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *bridgeMetrics) recordPublished(msgType string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(msgType).Inc()
}

func (m *bridgeMetrics) recordFailure(msgType string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(msgType).Inc()
}

func (m *bridgeMetrics) recordRateLimited(msgType string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(msgType).Inc()
}

func (m *bridgeMetrics) recordConnect() {
	if m == nil {
		return
	}
	m.connects.Inc()
}
