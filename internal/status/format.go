package status

import (
	"fmt"
	"math"
	"time"
)

// FormatSeconds renders an elapsed time the way the status line shows it:
// "42s", "3m 5s" or "1h 12m". Negative and NaN inputs render as "0s".
func FormatSeconds(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", int64(math.Round(seconds)))
	case seconds < 3600:
		minutes := int64(math.Floor(seconds / 60))
		remaining := int64(math.Round(math.Mod(seconds, 60)))
		return fmt.Sprintf("%dm %ds", minutes, remaining)
	default:
		hours := int64(math.Floor(seconds / 3600))
		minutes := int64(math.Floor(math.Mod(seconds, 3600) / 60))
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}

// FormatDuration is FormatSeconds for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatSeconds(d.Seconds())
}
