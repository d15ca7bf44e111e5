// Package protocol defines the wire protocol spoken with the orchestration
// backend: the envelope framing, the recognized message tags, typed payloads
// per tag, and strict validation for decision tree snapshots.
package protocol

// Inbound message tags. The tag space is open: the server may emit tags this
// client does not recognize, and unrecognized tags are logged and dropped by
// the dispatcher rather than treated as protocol errors.
const (
	// TypeAgentStatusUpdate carries one agent's status change.
	TypeAgentStatusUpdate = "agent_status_update"

	// TypeNetworkTopologyUpdate carries a full topology snapshot.
	TypeNetworkTopologyUpdate = "network_topology_update"

	// TypePerformanceMetricsUpdate carries a batch of performance samples.
	TypePerformanceMetricsUpdate = "performance_metrics_update"

	// TypeTreeUpdate carries a full decision tree snapshot rooted at depth 0.
	TypeTreeUpdate = "abmcts_tree_update"

	// TypeWorkflowUpdate carries one or more workflow records to upsert.
	TypeWorkflowUpdate = "workflow_update"

	// TypeSwarmCoordinationUpdate carries a coordination counters snapshot.
	TypeSwarmCoordinationUpdate = "swarm_coordination_update"

	// TypeHeartbeat is the server's liveness probe; the client answers with
	// TypeHeartbeatResponse.
	TypeHeartbeat = "heartbeat"

	// TypeError carries a structured server-side error report.
	TypeError = "error"

	// TypeConnectionEstablished confirms the server accepted the session.
	TypeConnectionEstablished = "connection_established"
)

// Outbound message tags.
const (
	// TypeHeartbeatResponse answers a server heartbeat.
	TypeHeartbeatResponse = "heartbeat_response"

	// TypeRequestInitialData asks the server to push full state snapshots.
	// Sent once per established connection.
	TypeRequestInitialData = "request_initial_data"

	// TypeWorkflowExecute submits a workflow for execution.
	TypeWorkflowExecute = "workflow_execute"

	// TypeAgentCommand sends an imperative command to one agent.
	TypeAgentCommand = "agent_command"

	// TypeTreeExpand requests expansion of a decision tree node.
	TypeTreeExpand = "abmcts_expand"

	// TypeAgentConfigUpdate pushes new configuration to one agent.
	TypeAgentConfigUpdate = "agent_config_update"
)
