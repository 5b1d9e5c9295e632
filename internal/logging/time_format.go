package logging

import "time"

// logTimestampLayout is shared by the console prefix, time-valued fields, and
// the JSON "ts" key.
const logTimestampLayout = time.RFC3339

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(logTimestampLayout)
}
