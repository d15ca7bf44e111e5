// Package buffer provides thread-safe bounded buffers with configurable overflow
// policies, built-in statistics tracking, and optional Prometheus metrics integration.
//
// # Overview
//
// The buffer package implements the bounded queues used between the sync client's
// producers and consumers: a circular FIFO for outbound message queueing and an
// insert-at-front activity log for recent-event feeds. Buffers are generic,
// thread-safe, and provide observability through always-on statistics and
// optional metrics.
//
// # Quick Start
//
// Basic buffer creation:
//
//	buf, err := buffer.NewCircularBuffer[int](50)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Write data
//	err = buf.Write(42)
//
//	// Read data
//	value, ok := buf.Read()
//
// With overflow policy and metrics:
//
//	buf, err := buffer.NewCircularBuffer[[]byte](50,
//		buffer.WithOverflowPolicy[[]byte](buffer.DropOldest),
//		buffer.WithMetrics[[]byte](registry, "outbound_queue"),
//	)
//
// # Overflow Policies
//
// The buffer supports two overflow behaviors when capacity is reached:
//
//   - DropOldest: Remove oldest item to make room (default)
//   - DropNewest: Reject new items when full
//
// Both policies succeed from the writer's perspective; producers are never
// blocked or failed by a full buffer. Use WithDropCallback to observe evictions.
//
// # Activity Logs
//
// ActivityLog keeps the most recent N entries with the newest at index 0,
// matching how recent-activity feeds are rendered:
//
//	log := buffer.NewActivityLog[StatusChange](100)
//	log.Push(change)
//	recent := log.Items() // newest first
//
// # Observability
//
// Statistics (always on):
//   - Tracks all operations using atomic counters
//   - Zero configuration required
//   - Available via buf.Stats()
//   - Provides computed metrics (throughput, drop rate, utilization)
//
// Prometheus metrics (optional):
//   - Enabled via WithMetrics() option
//   - Includes component labels for instance identification
//   - Standard metric types (Counter, Gauge)
//
// Both layers track operations independently so statistics stay available for
// debugging and tests even when no metrics registry is wired in.
//
// # Thread Safety
//
// All buffer operations are thread-safe for concurrent use:
//   - Multiple producers can write concurrently
//   - Multiple consumers can read concurrently
//   - Statistics use atomic operations (lock-free)
//   - Internal state protected by sync.Mutex
//
// # Performance Characteristics
//
// Operations:
//   - Write: O(1) constant time
//   - Read: O(1) constant time
//   - ReadBatch: O(n) where n is batch size
//   - Peek: O(1) constant time
//   - ActivityLog.Push: O(capacity) shift over a small fixed array
//
// Memory:
//   - Pre-allocated circular array
//   - No dynamic allocations during steady-state operation
package buffer
