package models

// MChangeDirection colours a field for the tick that produced it.
type MChangeDirection string

const (
	DirectionUp      MChangeDirection = "up"
	DirectionDown    MChangeDirection = "down"
	DirectionNeutral MChangeDirection = "neutral"
)

// MTokenStats holds optional social counters. Nil means absent.
type MTokenStats struct {
	Replies *int `json:"replies,omitempty"`
	Likes   *int `json:"likes,omitempty"`
	Views   *int `json:"views,omitempty"`
	Holders *int `json:"holders,omitempty"`
}

type MTokenMetric struct {
	Label      string `json:"label"`
	Value      string `json:"value"`
	IsPositive bool   `json:"is_positive"`
}

// MTokenRecord is the display snapshot of one tradable token.
// Magnitude fields are kept as formatted strings; PreviousPrice caches the
// last numeric price so the next tick does not re-parse a rounded string.
type MTokenRecord struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	BorderColor string `json:"border_color,omitempty"`
	Address     string `json:"address,omitempty"`
	TimeAgo     string `json:"time_ago"`

	Stats   MTokenStats    `json:"stats"`
	Metrics []MTokenMetric `json:"metrics,omitempty"`

	MarketCap string `json:"market_cap"`
	Volume    string `json:"volume,omitempty"`
	Price     string `json:"price"`
	Liquidity string `json:"liquidity"`
	TxCount   *int   `json:"tx_count,omitempty"`

	PriceChangeDirection MChangeDirection `json:"price_change_direction,omitempty"`
	PreviousPrice        *float64         `json:"previous_price,omitempty"`
}

// TxCountOrZero treats an absent transaction count as zero.
func (r MTokenRecord) TxCountOrZero() int {
	if r.TxCount == nil {
		return 0
	}
	return *r.TxCount
}

// Clone returns a copy that shares no pointers or slices with r.
func (r MTokenRecord) Clone() MTokenRecord {
	out := r
	out.Stats = MTokenStats{
		Replies: cloneInt(r.Stats.Replies),
		Likes:   cloneInt(r.Stats.Likes),
		Views:   cloneInt(r.Stats.Views),
		Holders: cloneInt(r.Stats.Holders),
	}
	if r.Metrics != nil {
		out.Metrics = append([]MTokenMetric(nil), r.Metrics...)
	}
	out.TxCount = cloneInt(r.TxCount)
	if r.PreviousPrice != nil {
		v := *r.PreviousPrice
		out.PreviousPrice = &v
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr is a small helper for optional counters.
func IntPtr(v int) *int {
	return &v
}
