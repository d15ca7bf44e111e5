package timestamp

import (
	"testing"
	"time"
)

// Test constants
var (
	testTime       = time.Date(2023, 1, 15, 12, 30, 45, 123000000, time.UTC) // Use exact milliseconds
	testTimeMs     = int64(1673785845123)                                    // Correct timestamp for the date above
	testTimeString = "2023-01-15T12:30:45Z"
)

func TestNow(t *testing.T) {
	before := time.Now().UnixMilli()
	ts := Now()
	after := time.Now().UnixMilli()

	if ts < before || ts > after {
		t.Errorf("Now() = %d, expected between %d and %d", ts, before, after)
	}
}

func TestToUnixMs(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected int64
	}{
		{
			name:     "normal time",
			input:    testTime,
			expected: testTimeMs,
		},
		{
			name:     "zero time",
			input:    time.Time{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToUnixMs(tt.input)
			if result != tt.expected {
				t.Errorf("ToUnixMs(%v) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFromUnixMs(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected time.Time
	}{
		{
			name:     "normal timestamp",
			input:    testTimeMs,
			expected: time.UnixMilli(testTimeMs),
		},
		{
			name:     "zero timestamp",
			input:    0,
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromUnixMs(tt.input)
			if !result.Equal(tt.expected) {
				t.Errorf("FromUnixMs(%d) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{
			name:     "normal timestamp",
			input:    1673785845000,
			expected: testTimeString,
		},
		{
			name:     "zero timestamp",
			input:    0,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.input)
			if result != tt.expected {
				t.Errorf("Format(%d) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int64
	}{
		{"nil input", nil, 0},
		{"rfc3339 string", testTimeString, 1673785845000},
		{"rfc3339 with millis", "2023-01-15T12:30:45.123Z", testTimeMs},
		{"unix seconds int64", int64(1673785845), 1673785845000},
		{"unix millis int64", testTimeMs, testTimeMs},
		{"unix seconds float", float64(1673785845), 1673785845000},
		{"unix millis float", float64(1673785845123), 1673785845123},
		{"unix seconds string", "1673785845", 1673785845000},
		{"unix millis string", "1673785845123", 1673785845123},
		{"plain int", int(1673785845), 1673785845000},
		{"int32 value", int32(2000000000), 2000000000000},
		{"time.Time", testTime, testTimeMs},
		{"zero int64", int64(0), 0},
		{"zero float", float64(0), 0},
		{"empty string", "", 0},
		{"garbage string", "not-a-timestamp", 0},
		{"unsupported type", struct{}{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.input)
			if result != tt.expected {
				t.Errorf("Parse(%v) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParse_PointerTime(t *testing.T) {
	if got := Parse((*time.Time)(nil)); got != 0 {
		t.Errorf("Parse(nil *time.Time) = %d, expected 0", got)
	}

	tm := testTime
	if got := Parse(&tm); got != testTimeMs {
		t.Errorf("Parse(*time.Time) = %d, expected %d", got, testTimeMs)
	}
}

func TestParseTime(t *testing.T) {
	got := ParseTime(testTimeString)
	if !got.Equal(time.Date(2023, 1, 15, 12, 30, 45, 0, time.UTC)) {
		t.Errorf("ParseTime(%q) = %v", testTimeString, got)
	}

	if !ParseTime("garbage").IsZero() {
		t.Error("ParseTime of unparseable input should be zero time")
	}

	if !ParseTime(nil).IsZero() {
		t.Error("ParseTime(nil) should be zero time")
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(0) {
		t.Error("IsZero(0) should be true")
	}
	if IsZero(testTimeMs) {
		t.Error("IsZero of a real timestamp should be false")
	}
}

func TestSince(t *testing.T) {
	if got := Since(0); got != 0 {
		t.Errorf("Since(0) = %v, expected 0", got)
	}

	past := Now() - 1000
	if got := Since(past); got < 900*time.Millisecond {
		t.Errorf("Since(1s ago) = %v, expected about 1s", got)
	}
}
