package helpers

import "time"

// isoLayout mirrors JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// ISOTime formats t as an ISO-8601 UTC timestamp with millisecond precision.
func ISOTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// NowUTC is the clock used for persisted timestamps. Mongo stores milliseconds,
// so timestamps are truncated to keep reads and writes identical.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
