package timestamp

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTime_UnmarshalMixedFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"rfc3339 string", `"2023-01-15T12:30:45Z"`, 1673785845000},
		{"unix millis", `1673785845123`, 1673785845123},
		{"unix seconds", `1673785845`, 1673785845000},
		{"numeric string", `"1673785845123"`, 1673785845123},
		{"null", `null`, 0},
		{"unparseable string", `"not a time"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Time
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			if got := ToUnixMs(ts.Time); got != tt.want {
				t.Errorf("Unmarshal(%s) = %d ms, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestTime_MarshalMillis(t *testing.T) {
	ts := At(time.UnixMilli(1673785845123))

	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(b) != "1673785845123" {
		t.Errorf("Marshal = %s, want 1673785845123", b)
	}
}

func TestTime_MarshalZeroAsNull(t *testing.T) {
	var ts Time

	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("Marshal of zero = %s, want null", b)
	}
}

func TestTime_RoundTrip(t *testing.T) {
	original := At(time.UnixMilli(1673785845123))

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded Time
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if !original.Equal(decoded) {
		t.Errorf("round trip changed value: %v != %v", original, decoded)
	}
}

func TestTime_InStruct(t *testing.T) {
	type record struct {
		Name      string `json:"name"`
		UpdatedAt Time   `json:"updated_at"`
	}

	var r record
	if err := json.Unmarshal([]byte(`{"name":"x","updated_at":"2023-01-15T12:30:45Z"}`), &r); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if ToUnixMs(r.UpdatedAt.Time) != 1673785845000 {
		t.Errorf("UpdatedAt = %d, want 1673785845000", ToUnixMs(r.UpdatedAt.Time))
	}

	var missing record
	if err := json.Unmarshal([]byte(`{"name":"y"}`), &missing); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !missing.UpdatedAt.IsZero() {
		t.Error("missing field should leave zero time")
	}
}
