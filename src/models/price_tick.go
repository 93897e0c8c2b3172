package models

import "time"

// MPriceTick is one archived price observation.
type MPriceTick struct {
	TokenID   string           `json:"token_id"`
	Symbol    string           `json:"symbol"`
	Price     float64          `json:"price"`
	Direction MChangeDirection `json:"direction"`
	Timestamp int64            `json:"timestamp"` // unix millis
	CreatedAt time.Time        `json:"created_at"`
}

// MHistoryPoint is a price sample kept in memory for the detail view.
type MHistoryPoint struct {
	Timestamp int64   `json:"timestamp"` // unix millis
	Price     float64 `json:"price"`
}

// MCandle is an OHLC bucket over a token's price history.
type MCandle struct {
	TokenID       string  `json:"token_id"`
	Window        string  `json:"window"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AvgPrice      float64 `json:"avg_price"`
	PercentChange float64 `json:"percent_change"`
	StartTime     int64   `json:"start_time"`
	EndTime       int64   `json:"end_time"`
	DataPoints    int     `json:"data_points"`
}
