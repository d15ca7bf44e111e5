package bridge

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/c360/swarmsync/metric"
	"github.com/c360/swarmsync/pkg/retry"
)

// Option configures a Bridge during construction.
type Option func(*Bridge) error

// WithLogger sets a custom structured logger for the bridge.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithMetrics registers the bridge's publish counters with the given
// registry. Without it the bridge runs unmetered.
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(b *Bridge) error {
		b.registry = registry
		return nil
	}
}

// WithRateLimit caps the publish rate. Envelopes over the limit are dropped
// and counted, never queued.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(b *Bridge) error {
		if perSecond <= 0 {
			return fmt.Errorf("publish rate must be positive, got %v", perSecond)
		}
		if burst < 1 {
			return fmt.Errorf("burst must be at least 1, got %d", burst)
		}
		b.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		return nil
	}
}

// WithSubjectPrefix overrides the subject prefix envelopes are published
// under. A trailing dot is stripped.
func WithSubjectPrefix(prefix string) Option {
	return func(b *Bridge) error {
		prefix = strings.TrimSuffix(prefix, ".")
		if prefix == "" {
			return fmt.Errorf("subject prefix must not be empty")
		}
		b.prefix = prefix
		return nil
	}
}

// WithName sets the NATS client name reported to the server.
func WithName(name string) Option {
	return func(b *Bridge) error {
		b.name = name
		return nil
	}
}

// WithToken sets the NATS authentication token.
func WithToken(token string) Option {
	return func(b *Bridge) error {
		b.token = token
		return nil
	}
}

// WithConnectRetry overrides the retry policy Connect uses for the initial
// connection attempt.
func WithConnectRetry(cfg retry.Config) Option {
	return func(b *Bridge) error {
		b.connectRetry = cfg
		return nil
	}
}
