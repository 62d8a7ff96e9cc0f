package timeutil

import (
	"fmt"
	"time"
)

// TimestampLayout is the only timestamp shape the API sends and accepts:
// UTC, second precision, literal trailing "Z".
const TimestampLayout = "2006-01-02T15:04:05Z"

// Now returns the current time in UTC
// Always use this instead of time.Now() to ensure timezone consistency
func Now() time.Time {
	return time.Now().UTC()
}

// FormatTimestamp renders t in UTC, truncated to whole seconds, with a trailing "Z"
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}

// ParseTimestamp strictly parses a TimestampLayout string.
// Offsets and fractional seconds are rejected.
func ParseTimestamp(value string) (time.Time, error) {
	// time.Parse tolerates fractional seconds the layout does not mention
	if len(value) != len(TimestampLayout) {
		return time.Time{}, fmt.Errorf("timestamp %q does not match %s", value, TimestampLayout)
	}
	t, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
