package timeutil

import (
	"testing"
	"time"
)

func TestNow_AlwaysUTC(t *testing.T) {
	now := Now()

	if now.Location() != time.UTC {
		t.Errorf("Now() returned non-UTC timezone: %v", now.Location())
	}
}

func TestFormatTimestamp(t *testing.T) {
	eastern := time.FixedZone("EST", -5*60*60)

	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "whole seconds UTC",
			input:    time.Date(2010, 1, 1, 8, 0, 0, 0, time.UTC),
			expected: "2010-01-01T08:00:00Z",
		},
		{
			name:     "sub-second precision is dropped",
			input:    time.Date(2025, 11, 20, 12, 30, 45, 987654321, time.UTC),
			expected: "2025-11-20T12:30:45Z",
		},
		{
			name:     "other zones are converted to UTC",
			input:    time.Date(2025, 11, 20, 23, 0, 0, 0, eastern),
			expected: "2025-11-21T04:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.input); got != tt.expected {
				t.Errorf("FormatTimestamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2011-11-18T17:07:09Z")
	if err != nil {
		t.Fatalf("ParseTimestamp() unexpected error: %v", err)
	}
	want := time.Date(2011, 11, 18, 17, 7, 9, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("ParseTimestamp() = %v, want %v", got, want)
	}

	for _, invalid := range []string{
		"2011-11-18T17:07:09+01:00",
		"2011-11-18T17:07:09.123Z",
		"2011-11-18",
		"",
	} {
		if _, err := ParseTimestamp(invalid); err == nil {
			t.Errorf("ParseTimestamp(%q) expected error", invalid)
		}
	}
}
