package protocol

import (
	"encoding/json"

	"github.com/c360/swarmsync/errors"
)

// Envelope wraps every message exchanged with the backend. Type discriminates
// dispatch; Data carries the tag-specific payload and is decoded lazily so a
// bad payload never poisons envelope parsing.
//
// Envelopes are immutable once constructed and are never persisted.
type Envelope struct {
	Type string          `json:"type"`           // Message tag (see tags.go)
	Data json.RawMessage `json:"data,omitempty"` // Tag-specific payload
}

// NewEnvelope builds an envelope for the given tag. A nil payload produces an
// envelope without a data field, which is how heartbeats and the initial data
// request travel.
func NewEnvelope(msgType string, payload any) (Envelope, error) {
	env := Envelope{Type: msgType}
	if payload == nil {
		return env, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, errors.WrapInvalid(err, "protocol", "NewEnvelope", "marshal payload")
	}
	env.Data = data
	return env, nil
}

// DecodePayload decodes an envelope's data into the payload type for its tag.
// An envelope without data decodes to the zero value, matching tags that
// travel with no payload.
func DecodePayload[T any](env Envelope) (T, error) {
	var payload T
	if len(env.Data) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return payload, errors.WrapInvalid(err, "protocol", "DecodePayload", "unmarshal payload")
	}
	return payload, nil
}
