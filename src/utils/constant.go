package utils

import "time"

// -----------------------------------------------------------------------------

// Feed cadence and tick bounds used when nothing else is configured.
const (
	DefaultTickInterval = 2 * time.Second
	DefaultMaxChangePct = 0.04
)

// -----------------------------------------------------------------------------

// TickInterval converts a configured millisecond interval to a duration,
// falling back to DefaultTickInterval.
func TickInterval(ms int) time.Duration {
	if ms <= 0 {
		return DefaultTickInterval
	}
	return time.Duration(ms) * time.Millisecond
}
