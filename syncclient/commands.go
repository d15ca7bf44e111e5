package syncclient

import (
	"github.com/c360/swarmsync/errors"
	"github.com/c360/swarmsync/orchestration"
	"github.com/c360/swarmsync/protocol"
)

// ExecuteWorkflow asks the backend to run the given workflow. Like all
// commands it is queued, so calling while disconnected is fine; the request
// goes out once a connection is up.
func (c *Client) ExecuteWorkflow(record orchestration.WorkflowRecord) error {
	if record.ID == "" {
		return errors.WrapInvalid(errors.ErrMalformedEnvelope, "syncclient", "ExecuteWorkflow", "workflow id required")
	}

	env, err := protocol.NewEnvelope(protocol.TypeWorkflowExecute, record)
	if err != nil {
		c.logger.Error("Workflow execute request not sent", "workflow_id", record.ID, "error", err)
		return err
	}
	return c.Send(env)
}

// SendAgentCommand sends a control command to a single agent.
func (c *Client) SendAgentCommand(agentID, command string, params map[string]any) error {
	if agentID == "" {
		return errors.WrapInvalid(errors.ErrMalformedEnvelope, "syncclient", "SendAgentCommand", "agent id required")
	}
	if command == "" {
		return errors.WrapInvalid(errors.ErrMalformedEnvelope, "syncclient", "SendAgentCommand", "command required")
	}

	env, err := protocol.NewEnvelope(protocol.TypeAgentCommand, protocol.AgentCommand{
		AgentID:    agentID,
		Command:    command,
		Parameters: params,
	})
	if err != nil {
		c.logger.Error("Agent command not sent", "agent_id", agentID, "command", command, "error", err)
		return err
	}
	return c.Send(env)
}

// RequestTreeExpansion asks the backend to expand the decision tree under
// nodeID. Depths below one are clamped to one.
func (c *Client) RequestTreeExpansion(nodeID string, depth int) error {
	if nodeID == "" {
		return errors.WrapInvalid(errors.ErrMalformedEnvelope, "syncclient", "RequestTreeExpansion", "node id required")
	}
	if depth < 1 {
		depth = 1
	}

	env, err := protocol.NewEnvelope(protocol.TypeTreeExpand, protocol.TreeExpansionRequest{
		NodeID: nodeID,
		Depth:  depth,
	})
	if err != nil {
		c.logger.Error("Tree expansion request not sent", "node_id", nodeID, "error", err)
		return err
	}
	return c.Send(env)
}

// UpdateAgentConfiguration pushes a configuration change to a single agent.
func (c *Client) UpdateAgentConfiguration(agentID string, config map[string]any) error {
	if agentID == "" {
		return errors.WrapInvalid(errors.ErrMalformedEnvelope, "syncclient", "UpdateAgentConfiguration", "agent id required")
	}

	env, err := protocol.NewEnvelope(protocol.TypeAgentConfigUpdate, protocol.AgentConfigUpdate{
		AgentID: agentID,
		Config:  config,
	})
	if err != nil {
		c.logger.Error("Agent config update not sent", "agent_id", agentID, "error", err)
		return err
	}
	return c.Send(env)
}
