// Package retry provides exponential backoff retry logic for transient failures.
//
// # Overview
//
// This package offers two shapes of backoff:
//
//   - Do / DoWithResult: execute a function with sleeping retries, for
//     ancillary operations like broker connects and startup initialization
//   - Backoff: a pure delay policy (no sleeping) for event loops that own
//     their own timers, such as the sync client's reconnect scheduling
//
// # Configuration Presets
//
//   - DefaultConfig(): 3 attempts, 100ms-5s delay (normal operations)
//   - Quick(): 10 attempts, 50ms-1s delay (component startup)
//   - Persistent(): 30 attempts, 200ms-10s delay (critical resources)
//   - DefaultBackoff(): 2s base doubling, 10 attempt budget (reconnects)
//
// # Usage Examples
//
// Basic retry with defaults:
//
//	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
//	    return client.Connect()
//	})
//
// Retry with result:
//
//	conn, err := retry.DoWithResult(ctx, retry.Persistent(), func() (*nats.Conn, error) {
//	    return nats.Connect(url)
//	})
//
// Pure policy in an event loop:
//
//	policy := retry.DefaultBackoff()
//	if policy.Exhausted(attempt) {
//	    return errAttemptsExhausted
//	}
//	timer := time.NewTimer(policy.Delay(attempt))
//
// # Error Classification
//
// Do retries every failure except:
//
//   - errors wrapped with NonRetryable()
//   - errors the platform classifies Invalid or Fatal
//
// Malformed input and exhausted budgets do not become valid by waiting, so
// those classes fail fast.
//
// # Context Cancellation
//
// All retry operations respect context cancellation and will immediately stop
// retrying, whether cancellation arrives during execution or during a backoff
// delay.
//
// # Thread Safety
//
// All functions are safe for concurrent use. The jitter mechanism uses a
// thread-safe random source to avoid contention. Backoff values are plain
// data and may be copied freely.
package retry
