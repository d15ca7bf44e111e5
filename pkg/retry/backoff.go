package retry

import (
	"math"
	"time"
)

// Backoff is a pure exponential backoff policy. It computes delays without
// sleeping so a caller's event loop can own the timer and tests can assert
// delays directly.
type Backoff struct {
	Base        time.Duration // delay before the first retry
	Factor      float64       // growth factor per attempt (typically 2.0)
	Cap         time.Duration // upper bound on a single delay (0 = uncapped)
	MaxAttempts int           // attempt budget (0 = unlimited)
}

// DefaultBackoff returns the reconnect policy used by the sync client:
// 2s base doubling per attempt, giving up after 10 attempts.
func DefaultBackoff() Backoff {
	return Backoff{
		Base:        2 * time.Second,
		Factor:      2.0,
		MaxAttempts: 10,
	}
}

// Delay returns the wait before the given attempt (1-based):
// Base * Factor^(attempt-1), bounded by Cap when set.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	base := b.Base
	if base <= 0 {
		base = 2 * time.Second
	}
	factor := b.Factor
	if factor < 1 {
		factor = 2.0
	}

	d := float64(base) * math.Pow(factor, float64(attempt-1))
	if b.Cap > 0 && d > float64(b.Cap) {
		return b.Cap
	}
	if d > float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Exhausted reports whether the given attempt (1-based) exceeds the budget.
func (b Backoff) Exhausted(attempt int) bool {
	return b.MaxAttempts > 0 && attempt > b.MaxAttempts
}
