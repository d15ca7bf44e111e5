// Package syncclient maintains a streaming connection to the agent
// orchestration backend and reconciles the server's update messages into a
// shared state store.
//
// The client owns the full connection lifecycle: dialing, heartbeats,
// exponential-backoff reconnection with a bounded attempt budget, and a
// bounded outbound queue that survives disconnects. A single run loop
// goroutine makes every lifecycle decision; public methods hand it work
// through channels, so callers never race the connection.
//
// # Basic Usage
//
//	client, err := syncclient.New("wss://orchestrator.example.com/ws",
//	    syncclient.WithCredential(token),
//	    syncclient.WithMetrics(registry),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if err := client.Start(ctx); err != nil {
//	    return err
//	}
//	client.Connect()
//
//	// Reconciled state is always readable, even mid-reconnect.
//	topo := client.Store().Topology()
//
//	// Commands queue while disconnected and flush once connected.
//	_ = client.SendAgentCommand("agent-7", "pause", nil)
//
//	_ = client.Stop(5 * time.Second)
//
// # Connection Lifecycle
//
// The client moves through six states: disconnected, connecting, connected,
// reconnecting, disconnecting, and failed. Connection loss schedules a
// reconnect with exponential backoff (2s, 4s, 8s, ...). After ten failed
// attempts in a row the client parks in the failed state and waits for
// RetryConnection. The attempt counter resets only when the server confirms
// the session, not when a dial happens to succeed.
//
// The store is never cleared on connection loss; readers keep the last known
// state while the client reconnects.
package syncclient
