// Package health provides health status tracking and aggregation for daemon
// components with thread-safe status tracking and an HTTP surface.
//
// The health package tracks the health of the sync client, the bridge, and
// any other daemon component, and aggregates them into a system-wide status
// served at /health.
//
// # Health States
//
// The package supports three health states:
//   - Healthy: component operating normally
//   - Degraded: component operating with reduced functionality
//   - Unhealthy: component not functioning properly
//
// The three-state model keeps the operational response proportional: a
// reconnecting sync client is degraded and recovers on its own, while a
// client in the terminal failed state is unhealthy and needs intervention.
//
// # Basic Usage
//
// Creating and tracking component health:
//
//	monitor := health.NewMonitor()
//
//	// Update component health
//	monitor.UpdateHealthy("bridge", "NATS connection stable")
//	monitor.UpdateConnectionState("syncclient", "reconnecting")
//
//	// Check individual component health
//	if status, exists := monitor.Get("syncclient"); exists {
//	    if status.IsDegraded() {
//	        log.Println("sync client is recovering")
//	    }
//	}
//
// # System-Wide Health Aggregation
//
// Combining multiple component health statuses into system-wide indicators:
//
//	systemHealth := monitor.AggregateHealth("swarmsync")
//	if systemHealth.IsUnhealthy() {
//	    log.Printf("System unhealthy: %s", systemHealth.Message)
//	}
//
//	// Aggregation uses hierarchical rules:
//	// - Any unhealthy component → system unhealthy
//	// - Any degraded component (with no unhealthy) → system degraded
//	// - All healthy → system healthy
//
// # HTTP Surface
//
// Handler serves the aggregate as JSON, answering 200 for healthy and
// degraded systems and 503 only when unhealthy, so orchestrators do not
// restart a daemon that is reconnecting on its own:
//
//	mux.Handle("/health", health.Handler(monitor, "swarmsync"))
//
// # Connection State Mapping
//
// FromConnectionState maps the sync client's connection states onto health
// states: connected is healthy, failed is unhealthy, and every transitional
// state (connecting, reconnecting, disconnecting, disconnected) is degraded.
//
// # Thread Safety
//
// Monitor is safe for concurrent use. Status values are plain data; copies
// are independent.
package health
