package orchestration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/c360/swarmsync/pkg/timestamp"
)

func TestExecutionState_IsValid(t *testing.T) {
	tests := []struct {
		state ExecutionState
		want  bool
	}{
		{ExecutionPending, true},
		{ExecutionRunning, true},
		{ExecutionPaused, true},
		{ExecutionCompleted, true},
		{ExecutionFailed, true},
		{ExecutionCancelled, true},
		{ExecutionState(""), false},
		{ExecutionState("finished"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestExecutionState_IsTerminal(t *testing.T) {
	tests := []struct {
		state ExecutionState
		want  bool
	}{
		{ExecutionPending, false},
		{ExecutionRunning, false},
		{ExecutionPaused, false},
		{ExecutionCompleted, true},
		{ExecutionFailed, true},
		{ExecutionCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal(%q) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestExecutionState_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(ExecutionRunning)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"running"` {
		t.Errorf("Marshal() = %s, want %q", data, `"running"`)
	}

	var state ExecutionState
	if err := json.Unmarshal([]byte(`"paused"`), &state); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if state != ExecutionPaused {
		t.Errorf("Unmarshal() = %q, want %q", state, ExecutionPaused)
	}
}

func TestDecisionNode_CountNodes(t *testing.T) {
	tests := []struct {
		name string
		root *DecisionNode
		want int
	}{
		{"nil tree", nil, 0},
		{"single node", &DecisionNode{ID: "root"}, 1},
		{
			"three levels",
			&DecisionNode{
				ID: "root",
				Children: []*DecisionNode{
					{ID: "a", Depth: 1, Children: []*DecisionNode{
						{ID: "a1", Depth: 2},
						{ID: "a2", Depth: 2},
					}},
					{ID: "b", Depth: 1},
				},
			},
			5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.root.CountNodes(); got != tt.want {
				t.Errorf("CountNodes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecisionNode_MaxDepth(t *testing.T) {
	root := &DecisionNode{
		ID: "root",
		Children: []*DecisionNode{
			{ID: "a", Depth: 1},
			{ID: "b", Depth: 1, Children: []*DecisionNode{
				{ID: "b1", Depth: 2, Children: []*DecisionNode{
					{ID: "b1a", Depth: 3},
				}},
			}},
		},
	}

	if got := root.MaxDepth(); got != 3 {
		t.Errorf("MaxDepth() = %d, want 3", got)
	}
	var nilNode *DecisionNode
	if got := nilNode.MaxDepth(); got != 0 {
		t.Errorf("MaxDepth() on nil = %d, want 0", got)
	}
}

func TestTopologyGraph_DecodeWireFormat(t *testing.T) {
	raw := `{
		"nodes": [
			{"id": "agent-1", "name": "planner", "agent_type": "coordinator", "status": "active", "capabilities": ["plan", "delegate"], "last_seen": 1673785845000},
			{"id": "agent-2", "agent_type": "worker", "status": "idle"}
		],
		"connections": [
			{"source": "agent-1", "target": "agent-2", "latency": 12.5, "status": "healthy"}
		],
		"topology_type": "hierarchical",
		"health_score": 0.93,
		"average_latency": 14.2,
		"last_updated": "2023-01-15T12:30:45Z"
	}`

	var got TopologyGraph
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := TopologyGraph{
		Nodes: []AgentNode{
			{
				ID:           "agent-1",
				Name:         "planner",
				AgentType:    "coordinator",
				Status:       "active",
				Capabilities: []string{"plan", "delegate"},
				LastSeen:     timestamp.At(time.UnixMilli(1673785845000)),
			},
			{ID: "agent-2", AgentType: "worker", Status: "idle"},
		},
		Connections: []AgentConnection{
			{Source: "agent-1", Target: "agent-2", Latency: 12.5, Status: "healthy"},
		},
		TopologyType:   "hierarchical",
		HealthScore:    0.93,
		AverageLatency: 14.2,
		LastUpdated:    timestamp.At(time.Date(2023, 1, 15, 12, 30, 45, 0, time.UTC)),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded topology mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkflowRecord_WireFieldNames(t *testing.T) {
	record := WorkflowRecord{
		ID:             "wf-1",
		Name:           "deploy",
		ExecutionState: ExecutionRunning,
		Progress:       0.4,
		CurrentStep:    "build",
		StepCount:      5,
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"id", "name", "execution_state", "progress", "current_step", "step_count"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("marshaled record missing field %q: %s", key, data)
		}
	}
	if fields["execution_state"] != "running" {
		t.Errorf("execution_state = %v, want %q", fields["execution_state"], "running")
	}
}
