package util

import "time"

// MinuteLayout is the history timestamp format (minute precision).
const MinuteLayout = "2006-01-02 15:04"

// MinuteStamp formats t with minute precision in its own location.
func MinuteStamp(t time.Time) string {
	return t.Format(MinuteLayout)
}
