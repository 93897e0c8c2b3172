package models

// -----------------------------------------------------------------------------
// Feed state pushed to the presentation layer
// -----------------------------------------------------------------------------

const (
	SnapshotInitial = "INITIAL"
	SnapshotUpdate  = "UPDATE"
)

type MFeedSnapshot struct {
	Type              string             `json:"type"` // "INITIAL" or "UPDATE"
	Columns           []MColumnGroup     `json:"columns"`
	Tick              int64              `json:"tick"`
	Timestamp         int64              `json:"timestamp"`
	ProcessingMetrics MProcessingMetrics `json:"processing_metrics"`
}

// -----------------------------------------------------------------------------
// SubscribeCommand for client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command       string   `json:"command"`
	Columns       []string `json:"columns"`
	SortField     string   `json:"sort_field"`
	SortDirection string   `json:"sort_direction"`
}
