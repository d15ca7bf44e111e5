// Package errors provides standardized error handling patterns for SwarmSync components.
//
// # Overview
//
// The errors package implements a three-class error classification system for a
// client that must keep running across unreliable connectivity: Transient
// (temporary, retryable), Invalid (bad input, non-retryable), and Fatal
// (unrecoverable, stop processing).
//
// Classification drives the sync client's failure handling: transient errors feed
// the reconnect policy, invalid errors are logged and dropped without breaking the
// receive loop, and fatal errors end in the terminal failed state that requires
// operator action.
//
// # Error Classification
//
//   - Transient: network drops, dial timeouts, liveness expiry (reconnect)
//   - Invalid: malformed envelopes, schema violations, bad payloads (drop, continue)
//   - Fatal: reconnect attempts exhausted, invalid configuration (stop, surface)
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if attempts > maxAttempts {
//	    return errors.ErrAttemptsExhausted
//	}
//
// Wrap errors with context for debugging:
//
//	if err := codec.Decode(frame); err != nil {
//	    return errors.WrapInvalid(err, "Client", "handleFrame", "envelope decode")
//	}
//
// Check classification for recovery decisions:
//
//	if err := transmit(env); err != nil {
//	    if errors.IsTransient(err) {
//	        scheduleReconnect()
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// The generic Wrap() adds the same context without forcing a class, so the
// original error's classification survives the chain.
//
// # Standard Error Variables
//
// Pre-defined variables cover the conditions the sync client distinguishes:
//
//   - Client lifecycle: ErrAlreadyStarted, ErrNotStarted, ErrClientClosed
//   - Connection: ErrNotConnected, ErrConnectionLost, ErrConnectionTimeout,
//     ErrAttemptsExhausted, ErrLivenessExpired
//   - Protocol: ErrMalformedEnvelope, ErrUnknownMessageType, ErrSchemaViolation,
//     ErrMalformedTree
//   - Configuration: ErrInvalidConfig, ErrMissingConfig
//
// # Context Cancellation
//
// Context errors (context.DeadlineExceeded, context.Canceled) classify as
// Transient, so context-based dial timeouts take the same reconnect path as
// network failures.
//
// # Thread Safety
//
// All classification and wrapping operations are thread-safe. Error variables
// are immutable and safe for concurrent access.
package errors
