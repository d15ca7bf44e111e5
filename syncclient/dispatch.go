package syncclient

import (
	"github.com/c360/swarmsync/orchestration"
	"github.com/c360/swarmsync/pkg/timestamp"
	"github.com/c360/swarmsync/protocol"
)

// buildHandlers wires the built-in message handlers, then appends any
// handlers registered through WithHandler so they run after the client's
// own handling.
func (c *Client) buildHandlers() {
	c.handlers = map[string][]Handler{
		protocol.TypeConnectionEstablished:    {c.onConnectionEstablished},
		protocol.TypeAgentStatusUpdate:        {c.onAgentStatus},
		protocol.TypeNetworkTopologyUpdate:    {c.onTopology},
		protocol.TypePerformanceMetricsUpdate: {c.onMetrics},
		protocol.TypeTreeUpdate:               {c.onTree},
		protocol.TypeWorkflowUpdate:           {c.onWorkflows},
		protocol.TypeSwarmCoordinationUpdate:  {c.onCoordination},
		protocol.TypeHeartbeat:                {c.onHeartbeat},
		protocol.TypeError:                    {c.onServerError},
	}
	for msgType, extra := range c.extraHandlers {
		c.handlers[msgType] = append(c.handlers[msgType], extra...)
	}
}

func (c *Client) dispatch(env protocol.Envelope) {
	handlers, ok := c.handlers[env.Type]
	if !ok {
		c.logger.Debug("Unknown message type", "type", env.Type)
		c.metrics.recordDecodeFailure("unknown_type")
		return
	}
	for _, handle := range handlers {
		handle(env)
	}
}

// onConnectionEstablished marks the session as confirmed by the server. This
// is what resets the reconnect budget, not the dial succeeding.
func (c *Client) onConnectionEstablished(env protocol.Envelope) {
	info, err := protocol.DecodePayload[protocol.ConnectionEstablished](env)
	if err != nil {
		c.logger.Warn("Malformed connection_established payload", "error", err)
	}

	c.setAttempts(0)
	c.setLastError(nil)
	if info.SessionID != "" {
		c.setSessionID(info.SessionID)
	}
	c.logger.Info("Session established",
		"session_id", info.SessionID,
		"server_version", info.ServerVersion,
	)

	if !c.initialDataRequested {
		req, err := protocol.NewEnvelope(protocol.TypeRequestInitialData, nil)
		if err == nil && c.transmitNow(req) {
			c.initialDataRequested = true
		}
	}
}

func (c *Client) onAgentStatus(env protocol.Envelope) {
	update, err := protocol.DecodePayload[protocol.AgentStatusUpdate](env)
	if err != nil {
		c.logger.Warn("Dropping malformed agent status update", "error", err)
		c.metrics.recordDecodeFailure(env.Type)
		return
	}

	ts := update.Timestamp
	if ts.IsZero() {
		ts = timestamp.NowTime()
	}
	c.store.RecordAgentStatus(orchestration.AgentStatusChange{
		AgentID:   update.AgentID,
		Status:    update.Status,
		Detail:    update.Detail,
		Timestamp: ts,
	})
}

func (c *Client) onTopology(env protocol.Envelope) {
	topo, err := protocol.DecodeTopology(env.Data)
	if err != nil {
		c.logger.Warn("Dropping malformed topology update", "error", err)
		c.metrics.recordDecodeFailure(env.Type)
		return
	}
	c.store.ReplaceTopology(topo)
}

func (c *Client) onMetrics(env protocol.Envelope) {
	samples, err := protocol.DecodeMetrics(env.Data)
	if err != nil {
		c.logger.Warn("Dropping malformed performance metrics", "error", err)
		c.metrics.recordDecodeFailure(env.Type)
		return
	}
	if len(samples) == 0 {
		return
	}

	c.store.ApplyMetrics(samples)
	for _, sample := range samples {
		ts := sample.Timestamp
		if ts.IsZero() {
			ts = timestamp.NowTime()
		}
		c.store.RecordMetricUpdate(orchestration.MetricUpdate{
			AgentID:   sample.AgentID,
			Metric:    "cpu_usage",
			Value:     sample.CPUUsage,
			Timestamp: ts,
		})
	}
}

func (c *Client) onTree(env protocol.Envelope) {
	root, err := protocol.DecodeTree(env.Data)
	if err != nil {
		// Keep the previous snapshot; a bad frame must not blank the view.
		c.logger.Warn("Rejecting tree snapshot", "error", err)
		c.metrics.recordDecodeFailure("tree")
		return
	}

	c.store.ReplaceTree(root)
	c.store.RecordDecisionUpdate(orchestration.DecisionUpdate{
		RootID:    root.ID,
		NodeCount: root.CountNodes(),
		MaxDepth:  root.MaxDepth(),
		Timestamp: timestamp.NowTime(),
	})
}

func (c *Client) onWorkflows(env protocol.Envelope) {
	records, err := protocol.DecodeWorkflows(env.Data)
	if err != nil {
		c.logger.Warn("Dropping malformed workflow update", "error", err)
		c.metrics.recordDecodeFailure(env.Type)
		return
	}

	for _, rec := range records {
		if !rec.ExecutionState.IsValid() {
			c.logger.Warn("Workflow carries unknown execution state",
				"workflow_id", rec.ID,
				"state", rec.ExecutionState,
			)
		}
	}
	c.store.UpsertWorkflows(records)
}

func (c *Client) onCoordination(env protocol.Envelope) {
	status, err := protocol.DecodeCoordination(env.Data)
	if err != nil {
		c.logger.Warn("Dropping malformed coordination update", "error", err)
		c.metrics.recordDecodeFailure(env.Type)
		return
	}
	c.store.ReplaceCoordination(status)
}

// onHeartbeat answers the server's liveness probe. A heartbeat proves the
// session is healthy, so it also clears the reconnect budget.
func (c *Client) onHeartbeat(env protocol.Envelope) {
	if c.metrics != nil {
		c.metrics.heartbeatsReceived.Inc()
	}
	c.setAttempts(0)

	resp, err := protocol.NewEnvelope(protocol.TypeHeartbeatResponse, nil)
	if err != nil {
		return
	}
	c.transmitNow(resp)
}

func (c *Client) onServerError(env protocol.Envelope) {
	serverErr, err := protocol.DecodePayload[protocol.ServerError](env)
	if err != nil {
		c.logger.Warn("Dropping malformed server error", "error", err)
		c.metrics.recordDecodeFailure(env.Type)
		return
	}

	c.logger.Warn("Server reported error",
		"code", serverErr.Code,
		"message", serverErr.Message,
		"severity", serverErr.Severity,
		"recoverable", serverErr.Recoverable,
	)
	if c.sink != nil {
		c.sink.OnServerError(serverErr)
	}
}
