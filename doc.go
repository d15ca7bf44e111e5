// Package swarmsync provides a reliable streaming state-sync client for
// agent-orchestration backends, keeping a local, always-consistent view of
// swarm state over a single authenticated WebSocket connection.
//
// # Philosophy: One Connection, One Truth
//
// SwarmSync is built around two commitments:
//
// Commitment 1 - The connection is managed, not assumed:
//   - Automatic reconnection with exponential backoff
//   - Heartbeats with server liveness tracking
//   - Bounded send queue that drains on reconnect
//   - Terminal failure after exhausted attempts, surfaced, never silent
//
// Commitment 2 - The local store is the reconciled truth:
//   - Every inbound update lands in one in-memory store
//   - Updates apply atomically under a single lock
//   - State survives reconnects; only the server refreshes it
//   - Snapshot reads are safe from any goroutine
//
// SwarmSync MUST NOT contain:
//   - Orchestration decision logic (scheduling, agent selection, tree search)
//   - Rendering or presentation concerns
//   - Backend-side session management
//
// Consumers build on the store and the typed update stream; the backend
// remains the only writer of orchestration state.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│       Orchestration Backend         │  Agent status, topology,
//	│         (WebSocket server)          │  workflows, decision trees
//	└──────────────────┬──────────────────┘
//	                   │ wss + bearer token
//	┌──────────────────┴──────────────────┐
//	│            syncclient               │  Lifecycle state machine
//	│ (dial, heartbeat, reconnect, queue) │  Ordered dispatch
//	└──────────────────┬──────────────────┘
//	                   ↓ typed updates
//	┌─────────────────────────────────────┐
//	│        orchestration.Store          │  Latest reconciled state
//	│  (topology, tree, workflows, ...)   │  Bounded activity logs
//	└──────────────────┬──────────────────┘
//	                   ↓ optional
//	┌─────────────────────────────────────┐
//	│              bridge                 │  Republish updates onto
//	│     (swarm.sync.<type> subjects)    │  NATS for other services
//	└─────────────────────────────────────┘
//
// # Connection Lifecycle
//
// The client moves through six states: disconnected, connecting, connected,
// reconnecting, disconnecting, and failed. Transitions are driven by a single
// run loop, so state, reconnect attempts, and the send queue never race.
//
// Reconnection doubles its delay on every attempt and gives up after the
// configured maximum, entering the failed state. RetryConnection restarts the
// cycle from a clean slate. Reconnect attempts reset only when the server
// confirms the session (connection established or heartbeat response), so a
// backend that accepts dials but never speaks still exhausts the budget.
//
// An optional liveness watchdog tears down connections on which the server
// has stopped responding to heartbeats. It is off by default for library use
// and enabled by the daemon at three heartbeat intervals.
//
// # Update Types
//
// Six update streams flow from the backend into the store:
//   - agent_status_update: per-agent status and the activity log
//   - network_topology_update: full topology snapshot (nodes, connections)
//   - performance_metrics_update: per-agent metrics, merged by agent ID
//   - abmcts_tree_update: decision tree snapshot
//   - workflow_update: workflow records, merged by workflow ID
//   - swarm_coordination_update: coordination snapshot
//
// Session plumbing (connection establishment, heartbeat responses, server
// errors) is handled internally and never reaches the store.
//
// # Packages
//
// Core:
//   - syncclient: connection lifecycle, dispatch, outbound commands
//   - orchestration: domain types and the in-memory store
//   - protocol: envelope codec and message type tags
//
// Integration:
//   - bridge: NATS republisher for inbound updates
//   - config: layered JSON configuration with env overrides
//   - cmd/swarmsync: daemon wiring it all together
//
// Infrastructure:
//   - errors: structured error handling with severity classification
//   - metric: Prometheus metrics registry and HTTP server
//   - health: connection-state health monitor and HTTP handler
//
// Utilities:
//   - pkg/buffer: bounded ring buffers and activity logs
//   - pkg/retry: retry policies and backoff
//   - pkg/timestamp: time utilities
//   - pkg/tlsutil: client TLS configuration
//
// # Usage Patterns
//
// Library use:
//
//	store := orchestration.NewStore()
//	client, err := syncclient.New("wss://orchestrator.internal/ws",
//	    syncclient.WithCredential(os.Getenv("SWARM_TOKEN")),
//	    syncclient.WithStore(store),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if err := client.Start(ctx); err != nil {
//	    return err
//	}
//	defer client.Stop(5 * time.Second)
//	client.Connect()
//
//	// Reads are snapshots; no locks held by the caller
//	topo := store.Topology()
//	workflows := store.Workflows()
//
// Sending commands:
//
//	err := client.SendAgentCommand("agent-7", "pause", nil)
//	err = client.RequestTreeExpansion("node-42", 3)
//
// Observing connection health:
//
//	client.State()             // current lifecycle state
//	client.LastError()         // latest connection error, nil once dismissed
//	client.ReconnectAttempts() // attempts since last confirmed session
//
// Custom update handling (for example, forwarding to another system):
//
//	client, err := syncclient.New(endpoint,
//	    syncclient.WithHandler(protocol.TypeWorkflowUpdate, func(env protocol.Envelope) {
//	        forward(env)
//	    }),
//	)
//
// # Design Principles
//
// Ordered Dispatch:
//   - One goroutine owns connection state and handler invocation
//   - Updates apply in arrival order; no handler runs concurrently
//   - Slow handlers delay the stream rather than corrupt it
//
// Store Durability:
//   - Reconnects never clear the store
//   - Stale state with a visible "reconnecting" status beats a blank view
//   - The server refreshes state via initial data after each session
//
// Bounded Everything:
//   - Send queue capped with drop-oldest overflow
//   - Activity logs capped per stream
//   - Reconnect attempts capped before terminal failure
//
// Explicit Errors:
//   - Every error carries component, method, and action context
//   - Severity classification separates transient from fatal
//   - Connection errors surface through LastError until dismissed
//
// # Binary
//
// Build and run the daemon:
//
//	# Generate a starting configuration
//	./bin/swarmsync --init-config configs/swarmsync.json
//
//	# Run against a backend
//	SWARM_TOKEN=... ./bin/swarmsync --config configs/swarmsync.json
//
//	# Verify a configuration without connecting
//	./bin/swarmsync --config configs/swarmsync.json --validate
//
// The daemon adds Prometheus metrics, a health endpoint reflecting the
// connection state, and optional NATS republishing via the bridge package.
package swarmsync
