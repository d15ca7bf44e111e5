package protocol

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/swarmsync/errors"
)

func TestJSONCodec_RoundTrip(t *testing.T) {
	codec := JSONCodec{}

	env, err := NewEnvelope(TypeAgentCommand, AgentCommand{
		AgentID: "agent-1",
		Command: "pause",
		Parameters: map[string]any{
			"grace_seconds": 5,
		},
	})
	require.NoError(t, err)

	frame, err := codec.Encode(env)
	require.NoError(t, err)

	decoded, err := codec.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, TypeAgentCommand, decoded.Type)

	cmd, err := DecodePayload[AgentCommand](decoded)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", cmd.AgentID)
	assert.Equal(t, "pause", cmd.Command)
	assert.Equal(t, float64(5), cmd.Parameters["grace_seconds"])
}

func TestJSONCodec_Decode_MissingType(t *testing.T) {
	codec := JSONCodec{}

	_, err := codec.Decode([]byte(`{"data": {"agent_id": "agent-1"}}`))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.True(t, stderrors.Is(err, errors.ErrMalformedEnvelope))
}

func TestJSONCodec_Decode_MalformedJSON(t *testing.T) {
	codec := JSONCodec{}

	tests := []struct {
		name  string
		frame string
	}{
		{"truncated object", `{"type": "heartbeat"`},
		{"not json", `##garbage##`},
		{"wrong envelope shape", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode([]byte(tt.frame))
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err), "decode errors must classify Invalid")
		})
	}
}

func TestNewEnvelope_NilPayload(t *testing.T) {
	env, err := NewEnvelope(TypeHeartbeat, nil)
	require.NoError(t, err)
	assert.Equal(t, TypeHeartbeat, env.Type)
	assert.Nil(t, env.Data)

	frame, err := JSONCodec{}.Encode(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "heartbeat"}`, string(frame))
}

func TestNewEnvelope_UnmarshalablePayload(t *testing.T) {
	_, err := NewEnvelope(TypeAgentCommand, func() {})
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestDecodePayload_EmptyData(t *testing.T) {
	env := Envelope{Type: TypeHeartbeat}

	payload, err := DecodePayload[ConnectionEstablished](env)
	require.NoError(t, err)
	assert.Equal(t, ConnectionEstablished{}, payload)
}

func TestDecodePayload_ServerError(t *testing.T) {
	env, err := NewEnvelope(TypeError, ServerError{
		Code:        "SWARM_UNAVAILABLE",
		Message:     "coordinator shed load",
		Severity:    "warning",
		Recoverable: true,
	})
	require.NoError(t, err)

	decoded, err := DecodePayload[ServerError](env)
	require.NoError(t, err)
	assert.Equal(t, "SWARM_UNAVAILABLE", decoded.Code)
	assert.True(t, decoded.Recoverable)
}
