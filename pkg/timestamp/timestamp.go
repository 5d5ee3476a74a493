// Package timestamp provides standardized Unix timestamp handling utilities.
//
// This package uses int64 milliseconds as the canonical timestamp format for
// outgoing messages, and float64 seconds for raw device stamps (the unit
// hardware encoder interfaces report in). All timestamps are relative to the
// Unix epoch (UTC).
//
// Zero Value Semantics:
//   - A timestamp value of 0 means "not set" or "unknown"
//   - Functions handle zero values gracefully, returning appropriate defaults
//
// Usage Examples:
//
//	// Current time
//	now := timestamp.Now()
//
//	// Representative stamp for a sample cycle
//	mean := timestamp.MeanSeconds(encoderStamps)
//	stamp := timestamp.FromSeconds(mean)
//
//	// Format for display
//	display := timestamp.Format(stamp)
package timestamp

import (
	"fmt"
	"time"
)

// Now returns the current time as Unix milliseconds.
func Now() int64 {
	return time.Now().UnixMilli()
}

// ToUnixMs converts a time.Time to Unix milliseconds.
func ToUnixMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromUnixMs converts Unix milliseconds to time.Time.
// Returns zero time if timestamp is 0.
func FromUnixMs(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// FromSeconds converts a device stamp in float64 Unix seconds to Unix
// milliseconds. Returns 0 for non-positive input.
func FromSeconds(sec float64) int64 {
	if sec <= 0 {
		return 0
	}
	return int64(sec * 1000)
}

// ToSeconds converts Unix milliseconds to float64 Unix seconds.
func ToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}

// MeanSeconds returns the arithmetic mean of per-joint device stamps in
// float64 Unix seconds. Returns 0 for an empty slice.
func MeanSeconds(stamps []float64) float64 {
	if len(stamps) == 0 {
		return 0
	}
	var sum float64
	for _, s := range stamps {
		sum += s
	}
	return sum / float64(len(stamps))
}

// Format converts Unix milliseconds to RFC3339 string for display.
// Returns empty string if timestamp is 0.
func Format(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// IsZero checks if a timestamp is unset (zero).
func IsZero(ms int64) bool {
	return ms == 0
}

// Validate checks if a timestamp is valid (non-negative and reasonable).
// Returns an error if the timestamp is negative or unreasonably large.
func Validate(ms int64) error {
	if ms < 0 {
		return fmt.Errorf("timestamp cannot be negative: %d", ms)
	}
	// Year 3000 cutoff
	if ms > 32503680000000 {
		return fmt.Errorf("timestamp too far in future: %d", ms)
	}
	return nil
}
