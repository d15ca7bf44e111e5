package timestamp

import (
	"encoding/json"
	"time"
)

// Time is a time.Time that tolerates the wire's mixed timestamp encodings.
// It unmarshals from RFC3339 strings, Unix seconds, Unix milliseconds, and
// numeric strings, and marshals to canonical Unix milliseconds. The zero
// value marshals as null.
type Time struct {
	time.Time
}

// At wraps a time.Time.
func At(t time.Time) Time {
	return Time{Time: t}
}

// NowTime returns the current instant as a wire Time.
func NowTime() Time {
	return Time{Time: time.Now()}
}

// MarshalJSON encodes the time as Unix milliseconds, or null when unset.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ToUnixMs(t.Time))
}

// UnmarshalJSON accepts any timestamp shape Parse understands.
func (t *Time) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	t.Time = ParseTime(raw)
	return nil
}

// Equal reports whether two wire times represent the same millisecond.
// Sub-millisecond precision is not preserved on the wire.
func (t Time) Equal(other Time) bool {
	return ToUnixMs(t.Time) == ToUnixMs(other.Time)
}
