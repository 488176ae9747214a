package feed

import (
	"fmt"
	"time"
)

// FormatRelative formats an epoch-millisecond timestamp as a relative age
// label: "Now" under a minute, "{m}m" under an hour, "{h}h" under a day,
// then the ISO calendar date. Ages are floored, so 59m59s is still "59m".
// Pure: labels are recomputed from the stored epoch on the relabel tick.
func FormatRelative(now time.Time, epochMillis int64) string {
	diff := now.UnixMilli() - epochMillis

	seconds := diff / 1000
	if seconds < 60 {
		return "Now"
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	return time.UnixMilli(epochMillis).UTC().Format("2006-01-02")
}

// FormatDurationWords renders a duration in the largest whole unit, in
// words: "3 days", "1 hour", "12 minutes". Sub-minute durations collapse to
// "0 minutes". Used for player status lines.
func FormatDurationWords(d time.Duration) string {
	minutes := int64(d / time.Minute)
	hours := minutes / 60
	days := hours / 24

	plural := func(n int64, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	default:
		return plural(minutes, "minute")
	}
}
