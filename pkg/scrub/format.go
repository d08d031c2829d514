package scrub

import (
	"fmt"
	"math"
)

// FormatTimestamp formats a timestamp in seconds as an M:SS label, the way
// a scrub control displays duration and current time.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
