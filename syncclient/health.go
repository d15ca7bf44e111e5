package syncclient

import (
	"time"
)

// Health is a point-in-time snapshot of the client's condition, suitable for
// health endpoints and periodic status logging.
type Health struct {
	State              ConnectionState `json:"state"`
	Connected          bool            `json:"connected"`
	LastError          string          `json:"last_error,omitempty"`
	ReconnectAttempts  int             `json:"reconnect_attempts"`
	SessionID          string          `json:"session_id,omitempty"`
	ConnectedAt        time.Time       `json:"connected_at"`
	LastServerActivity time.Time       `json:"last_server_activity"`
	Uptime             time.Duration   `json:"uptime"`
	QueueDepth         int             `json:"queue_depth"`
	QueueCapacity      int             `json:"queue_capacity"`
}

// Health returns a consistent snapshot of the client's observable state.
func (c *Client) Health() Health {
	c.mu.RLock()
	h := Health{
		State:              c.state,
		Connected:          c.state == StateConnected,
		ReconnectAttempts:  c.attempts,
		SessionID:          c.sessionID,
		ConnectedAt:        c.connectedAt,
		LastServerActivity: c.lastServerActivity,
	}
	if c.lastErr != nil {
		h.LastError = c.lastErr.Error()
	}
	if !c.startedAt.IsZero() {
		h.Uptime = time.Since(c.startedAt)
	}
	c.mu.RUnlock()

	h.QueueDepth = c.queue.Size()
	h.QueueCapacity = c.queue.Capacity()
	return h
}

// SessionID returns the identifier the server assigned to the current
// session, or an empty string before the first confirmation.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}
