package protocol

import (
	"encoding/json"

	"github.com/c360/swarmsync/errors"
)

// Codec converts envelopes to and from wire frames. The client and its tests
// share one Codec so frame handling stays symmetric across both directions.
type Codec interface {
	// Encode serializes an envelope into a wire frame.
	Encode(env Envelope) ([]byte, error)

	// Decode parses a wire frame into an envelope. Frames that are not valid
	// JSON or are missing the type tag fail with an Invalid-class error, so
	// dispatchers can log and drop them without touching connection state.
	Decode(frame []byte) (Envelope, error)
}

// JSONCodec is the production Codec: one JSON object per frame.
type JSONCodec struct{}

// Encode serializes the envelope as a JSON object.
func (JSONCodec) Encode(env Envelope) ([]byte, error) {
	frame, err := json.Marshal(env)
	if err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "Encode", "marshal envelope")
	}
	return frame, nil
}

// Decode parses a JSON frame and validates the envelope.
func (JSONCodec) Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, errors.WrapInvalid(err, "protocol", "Decode", "unmarshal frame")
	}

	if env.Type == "" {
		return Envelope{}, errors.WrapInvalid(errors.ErrMalformedEnvelope, "protocol", "Decode", "missing message type")
	}

	return env, nil
}
