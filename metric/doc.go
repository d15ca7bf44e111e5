// Package metric provides Prometheus-based metrics collection and HTTP server
// for SwarmSync monitoring and observability.
//
// The package offers a centralized metrics registry managing both core client
// metrics (connection state, message throughput, queue pressure, heartbeats)
// and custom component-specific metrics. It includes an HTTP server exposing
// metrics in Prometheus format alongside a health endpoint.
//
// # Architecture
//
// The package follows a three-layer design:
//
//  1. Core Metrics: client-level metrics automatically registered (Metrics type)
//  2. Component Registry: extensible registration for component-specific metrics
//     (MetricsRegistrar interface)
//  3. HTTP Server: metrics endpoint with health checks (Server type)
//
// # Basic Usage
//
// Setting up metrics collection and the HTTP server:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(":9090", "/metrics", registry, nil)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        log.Printf("metrics server error: %v", err)
//	    }
//	}()
//
//	// Record core client metrics
//	core := registry.CoreMetrics()
//	core.RecordMessageReceived("workflow_update")
//	core.RecordQueueDepth(3)
//
// Registering component-specific metrics:
//
//	counter := prometheus.NewCounter(prometheus.CounterOpts{
//	    Name: "swarmsync_bridge_retries_total",
//	    Help: "Bridge connect retries",
//	})
//	if err := registry.RegisterCounter("bridge", "retries", counter); err != nil {
//	    return err
//	}
//
// Duplicate registrations are rejected with a classified error so components
// fail loudly at startup rather than silently sharing collectors.
package metric
