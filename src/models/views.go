package models

// MTokenCard is a record rendered with the current display settings.
type MTokenCard struct {
	ID                   string            `json:"id"`
	Symbol               string            `json:"symbol"`
	Name                 string            `json:"name"`
	Description          string            `json:"description"`
	Image                string            `json:"image"`
	ImageShape           string            `json:"image_shape"` // circle | rounded
	BorderColor          string            `json:"border_color,omitempty"`
	Address              string            `json:"address,omitempty"`
	TimeAgo              string            `json:"time_ago"`
	MarketCap            string            `json:"market_cap"`
	Volume               string            `json:"volume"`
	Price                string            `json:"price"`
	Liquidity            string            `json:"liquidity"`
	TxCount              string            `json:"tx_count"`
	Stats                map[string]string `json:"stats,omitempty"`
	Metrics              []MTokenMetric    `json:"metrics,omitempty"`
	PriceChangeDirection MChangeDirection  `json:"price_change_direction,omitempty"`
}

// MColumnView is a sorted, rendered column.
type MColumnView struct {
	Title         string       `json:"title"`
	Count         int          `json:"count"`
	SortField     string       `json:"sort_field"`
	SortDirection string       `json:"sort_direction"`
	Cards         []MTokenCard `json:"cards"`
}

// MTokenDetail backs the token detail view.
type MTokenDetail struct {
	Record        MTokenRecord    `json:"record"`
	Card          MTokenCard      `json:"card"`
	History       []MHistoryPoint `json:"history"`
	MeanPrice     float64         `json:"mean_price"`
	StdPrice      float64         `json:"std_price"`
	PercentChange float64         `json:"percent_change"`
}

// MFeedView is what a WebSocket client receives: the snapshot rendered for
// its subscription.
type MFeedView struct {
	Type              string             `json:"type"`
	Tick              int64              `json:"tick"`
	Timestamp         int64              `json:"timestamp"`
	Columns           []MColumnView      `json:"columns"`
	ProcessingMetrics MProcessingMetrics `json:"processing_metrics"`
}

// MErrorMessage reports a rejected client command.
type MErrorMessage struct {
	Type  string `json:"type"` // always "ERROR"
	Error string `json:"error"`
}
