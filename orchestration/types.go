// Package orchestration provides the reconciled state model for the agent
// orchestration backend: agent topology, the decision tree mirrored from the
// planner, workflow records, per-agent performance metrics, and the swarm
// coordination snapshot.
package orchestration

import (
	"encoding/json"

	"github.com/c360/swarmsync/pkg/timestamp"
)

// ExecutionState represents the lifecycle state of a workflow.
type ExecutionState string

const (
	// ExecutionPending indicates the workflow has been accepted but not started.
	ExecutionPending ExecutionState = "pending"

	// ExecutionRunning indicates the workflow is actively executing.
	ExecutionRunning ExecutionState = "running"

	// ExecutionPaused indicates execution is suspended and can resume.
	ExecutionPaused ExecutionState = "paused"

	// ExecutionCompleted indicates the workflow finished successfully.
	ExecutionCompleted ExecutionState = "completed"

	// ExecutionFailed indicates the workflow terminated with an error.
	ExecutionFailed ExecutionState = "failed"

	// ExecutionCancelled indicates the workflow was stopped by request.
	ExecutionCancelled ExecutionState = "cancelled"
)

// String returns the string representation of the ExecutionState.
func (es ExecutionState) String() string {
	return string(es)
}

// IsValid checks if the ExecutionState is one of the defined constants.
func (es ExecutionState) IsValid() bool {
	switch es {
	case ExecutionPending, ExecutionRunning, ExecutionPaused,
		ExecutionCompleted, ExecutionFailed, ExecutionCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the workflow can no longer make progress.
func (es ExecutionState) IsTerminal() bool {
	return es == ExecutionCompleted || es == ExecutionFailed || es == ExecutionCancelled
}

// MarshalJSON implements json.Marshaler to ensure ExecutionState serializes as a string.
func (es ExecutionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(es))
}

// UnmarshalJSON implements json.Unmarshaler to deserialize ExecutionState from string.
func (es *ExecutionState) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*es = ExecutionState(s)
	return nil
}

// AgentNode is one agent in the reported topology.
type AgentNode struct {
	ID           string         `json:"id"`
	Name         string         `json:"name,omitempty"`
	AgentType    string         `json:"agent_type,omitempty"`
	Status       string         `json:"status,omitempty"`
	Capabilities []string       `json:"capabilities,omitempty"`
	LastSeen     timestamp.Time `json:"last_seen,omitempty"`
}

// AgentConnection is a directed edge between two agents in the topology.
type AgentConnection struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Latency float64 `json:"latency,omitempty"` // milliseconds
	Status  string  `json:"status,omitempty"`
}

// TopologyGraph is the full agent network as last reported by the server.
// It is replaced wholesale on every topology update, never patched, so a
// snapshot is always internally consistent.
type TopologyGraph struct {
	Nodes          []AgentNode       `json:"nodes"`
	Connections    []AgentConnection `json:"connections"`
	TopologyType   string            `json:"topology_type,omitempty"`
	HealthScore    float64           `json:"health_score,omitempty"`
	AverageLatency float64           `json:"average_latency,omitempty"`
	LastUpdated    timestamp.Time    `json:"last_updated,omitempty"`
}

// DecisionNode is one node of the planner's search tree. The tree arrives as
// a single recursive snapshot with the root at depth 0; a child's depth is
// always its parent's depth plus one.
type DecisionNode struct {
	ID            string          `json:"id"`
	Depth         int             `json:"depth"`
	Visits        int             `json:"visits"`
	AverageReward float64         `json:"average_reward"`
	Confidence    float64         `json:"confidence"`
	UCBValue      float64         `json:"ucb_value"`
	Children      []*DecisionNode `json:"children,omitempty"`
	IsExpanded    bool            `json:"is_expanded"`
	AgentState    string          `json:"agent_state,omitempty"`
	Action        string          `json:"action,omitempty"`
}

// CountNodes returns the number of nodes in the subtree rooted here.
func (n *DecisionNode) CountNodes() int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children {
		count += child.CountNodes()
	}
	return count
}

// MaxDepth returns the deepest depth value present in the subtree.
func (n *DecisionNode) MaxDepth() int {
	if n == nil {
		return 0
	}
	max := n.Depth
	for _, child := range n.Children {
		if d := child.MaxDepth(); d > max {
			max = d
		}
	}
	return max
}

// WorkflowRecord is one workflow tracked by the orchestrator.
type WorkflowRecord struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	ExecutionState ExecutionState `json:"execution_state"`
	Progress       float64        `json:"progress,omitempty"` // 0.0 to 1.0
	CurrentStep    string         `json:"current_step,omitempty"`
	StepCount      int            `json:"step_count,omitempty"`
	StartedAt      timestamp.Time `json:"started_at,omitempty"`
	UpdatedAt      timestamp.Time `json:"updated_at,omitempty"`
}

// PerformanceMetric is the latest performance sample for one agent.
type PerformanceMetric struct {
	AgentID         string         `json:"agent_id"`
	CPUUsage        float64        `json:"cpu_usage,omitempty"`
	MemoryUsage     float64        `json:"memory_usage,omitempty"`
	TaskThroughput  float64        `json:"task_throughput,omitempty"`
	ResponseLatency float64        `json:"response_latency,omitempty"`
	ErrorRate       float64        `json:"error_rate,omitempty"`
	Timestamp       timestamp.Time `json:"timestamp,omitempty"`
}

// SwarmCoordination is the coordination counters snapshot, replaced wholesale
// on every swarm coordination update.
type SwarmCoordination struct {
	TotalAgents            int            `json:"total_agents"`
	ActiveAgents           int            `json:"active_agents"`
	CompletedTasks         int            `json:"completed_tasks"`
	PendingTasks           int            `json:"pending_tasks"`
	CoordinationEfficiency float64        `json:"coordination_efficiency,omitempty"`
	LastSync               timestamp.Time `json:"last_sync,omitempty"`
}

// AgentStatusChange is one entry in the agent status activity log.
type AgentStatusChange struct {
	AgentID   string         `json:"agent_id"`
	Status    string         `json:"status"`
	Detail    string         `json:"detail,omitempty"`
	Timestamp timestamp.Time `json:"timestamp"`
}

// MetricUpdate is one entry in the metric activity log.
type MetricUpdate struct {
	AgentID   string         `json:"agent_id"`
	Metric    string         `json:"metric"`
	Value     float64        `json:"value"`
	Timestamp timestamp.Time `json:"timestamp"`
}

// DecisionUpdate is one entry in the decision activity log, summarizing an
// accepted tree snapshot.
type DecisionUpdate struct {
	RootID    string         `json:"root_id"`
	NodeCount int            `json:"node_count"`
	MaxDepth  int            `json:"max_depth"`
	Timestamp timestamp.Time `json:"timestamp"`
}
