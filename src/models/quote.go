package models

// MTokenQuote is a remote source's price update for one token.
// Price is preferred; PriceText is used when Price is absent.
type MTokenQuote struct {
	ID        string   `json:"id"`
	Price     *float64 `json:"price,omitempty"`
	PriceText string   `json:"price_text,omitempty"`
}
