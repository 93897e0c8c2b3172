package models

// MProcessingMetrics describes the last feed tick.
type MProcessingMetrics struct {
	TickDurationSeconds float64 `json:"tick_duration_seconds"`
	Records             int     `json:"records"`
	Columns             int     `json:"columns"`
	Source              string  `json:"source"`
}
