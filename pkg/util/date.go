package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return FromUnixGuess(float64(ts)), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// FromUnixGuess interprets a numeric timestamp as unix seconds, or as
// milliseconds when the magnitude makes seconds implausible.
func FromUnixGuess(n float64) time.Time {
	const msCutoff = 1e12 // seconds won't reach this until year 33658
	if n >= msCutoff {
		return time.UnixMilli(int64(n))
	}
	return time.Unix(int64(n), 0)
}
