package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/c360/swarmsync/errors"
	"github.com/c360/swarmsync/orchestration"
	"github.com/c360/swarmsync/pkg/timestamp"
)

// ConnectionEstablished is the payload of a connection_established message.
type ConnectionEstablished struct {
	SessionID     string `json:"session_id,omitempty"`
	ServerVersion string `json:"server_version,omitempty"`
	Message       string `json:"message,omitempty"`
}

// ServerError is the payload of an inbound error message.
type ServerError struct {
	Code        string `json:"code,omitempty"`
	Message     string `json:"message"`
	Severity    string `json:"severity,omitempty"`
	Recoverable bool   `json:"recoverable,omitempty"`
}

// AgentStatusUpdate is the payload of an agent_status_update message.
type AgentStatusUpdate struct {
	AgentID   string         `json:"agent_id"`
	Status    string         `json:"status"`
	Detail    string         `json:"detail,omitempty"`
	Timestamp timestamp.Time `json:"timestamp,omitempty"`
}

// AgentCommand is the payload of an outbound agent_command message.
type AgentCommand struct {
	AgentID    string         `json:"agent_id"`
	Command    string         `json:"command"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// TreeExpansionRequest is the payload of an outbound abmcts_expand message.
type TreeExpansionRequest struct {
	NodeID string `json:"node_id"`
	Depth  int    `json:"depth"`
}

// AgentConfigUpdate is the payload of an outbound agent_config_update message.
type AgentConfigUpdate struct {
	AgentID string         `json:"agent_id"`
	Config  map[string]any `json:"config"`
}

// DecodeTopology decodes a network_topology_update payload into a fresh
// topology snapshot.
func DecodeTopology(data json.RawMessage) (*orchestration.TopologyGraph, error) {
	var graph orchestration.TopologyGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "DecodeTopology", "unmarshal topology")
	}
	return &graph, nil
}

// DecodeMetrics decodes a performance_metrics_update payload. The server
// emits either a bare array of samples or an object with a metrics array;
// both shapes decode to the same batch.
func DecodeMetrics(data json.RawMessage) ([]orchestration.PerformanceMetric, error) {
	if isJSONArray(data) {
		var batch []orchestration.PerformanceMetric
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, errors.WrapInvalid(err, "protocol", "DecodeMetrics", "unmarshal metric array")
		}
		return batch, nil
	}

	var wrapped struct {
		Metrics []orchestration.PerformanceMetric `json:"metrics"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "DecodeMetrics", "unmarshal metric batch")
	}
	if len(wrapped.Metrics) > 0 {
		return wrapped.Metrics, nil
	}

	// A single sample arrives as a bare object.
	var single orchestration.PerformanceMetric
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "DecodeMetrics", "unmarshal metric")
	}
	if single.AgentID == "" {
		return nil, nil
	}
	return []orchestration.PerformanceMetric{single}, nil
}

// DecodeWorkflows decodes a workflow_update payload. The server emits a bare
// array, an object with a workflows array, or a single record; all shapes
// decode to the same batch, in server order.
func DecodeWorkflows(data json.RawMessage) ([]orchestration.WorkflowRecord, error) {
	if isJSONArray(data) {
		var batch []orchestration.WorkflowRecord
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, errors.WrapInvalid(err, "protocol", "DecodeWorkflows", "unmarshal workflow array")
		}
		return batch, nil
	}

	var wrapped struct {
		Workflows []orchestration.WorkflowRecord `json:"workflows"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "DecodeWorkflows", "unmarshal workflow batch")
	}
	if len(wrapped.Workflows) > 0 {
		return wrapped.Workflows, nil
	}

	var single orchestration.WorkflowRecord
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "DecodeWorkflows", "unmarshal workflow")
	}
	if single.ID == "" {
		return nil, errors.WrapInvalid(errors.ErrMalformedEnvelope, "protocol", "DecodeWorkflows", "workflow record missing id")
	}
	return []orchestration.WorkflowRecord{single}, nil
}

// DecodeCoordination decodes a swarm_coordination_update payload.
func DecodeCoordination(data json.RawMessage) (*orchestration.SwarmCoordination, error) {
	var snap orchestration.SwarmCoordination
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "DecodeCoordination", "unmarshal coordination")
	}
	return &snap, nil
}

func isJSONArray(data json.RawMessage) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
