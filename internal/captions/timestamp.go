package captions

import (
	"fmt"
	"math"
)

// msEpsilon absorbs binary representation error so that 3661.234 (stored as
// 3661.23399999...) still yields 234 milliseconds after truncation.
const msEpsilon = 1e-6

// FormatTimestamp converts seconds to the SRT clock format HH:MM:SS,mmm.
// Milliseconds are truncated, not rounded. Hours are padded to two digits but
// never clipped, so 100+ hours render with three or more digits.
func FormatTimestamp(seconds float64) string {
	totalMs := int64(math.Floor(seconds*1000 + msEpsilon))

	hours := totalMs / 3_600_000
	minutes := (totalMs / 60_000) % 60
	secs := (totalMs / 1000) % 60
	millis := totalMs % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
