package syncclient

// ConnectionState represents the client's position in the connection
// lifecycle. It is owned exclusively by the run loop; all transitions happen
// there and nowhere else.
type ConnectionState string

// Connection lifecycle states.
const (
	// StateDisconnected means no connection exists and none is being made.
	StateDisconnected ConnectionState = "disconnected"

	// StateConnecting means a dial is in flight.
	StateConnecting ConnectionState = "connecting"

	// StateConnected means the transport is open and frames are flowing.
	StateConnected ConnectionState = "connected"

	// StateReconnecting means the connection dropped and a retry is pending.
	StateReconnecting ConnectionState = "reconnecting"

	// StateDisconnecting means a client-initiated teardown is in progress.
	StateDisconnecting ConnectionState = "disconnecting"

	// StateFailed means the reconnect budget is exhausted. Terminal until
	// RetryConnection or Connect is called.
	StateFailed ConnectionState = "failed"
)

// String returns the string representation of the ConnectionState.
func (s ConnectionState) String() string {
	return string(s)
}

// Valid checks if the ConnectionState is one of the defined constants.
func (s ConnectionState) Valid() bool {
	switch s {
	case StateDisconnected, StateConnecting, StateConnected,
		StateReconnecting, StateDisconnecting, StateFailed:
		return true
	default:
		return false
	}
}

// CanDial reports whether Connect may start a fresh connection from this
// state. It is permitted only at rest: from disconnected or from the
// terminal failed state.
func (s ConnectionState) CanDial() bool {
	return s == StateDisconnected || s == StateFailed
}

// stateCode maps states onto a stable numeric scale for the state gauge.
func stateCode(s ConnectionState) float64 {
	switch s {
	case StateDisconnected:
		return 0
	case StateConnecting:
		return 1
	case StateConnected:
		return 2
	case StateReconnecting:
		return 3
	case StateDisconnecting:
		return 4
	case StateFailed:
		return 5
	default:
		return -1
	}
}
