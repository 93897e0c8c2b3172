package models

// MTokenMetadata is the registry row kept for every token that appeared on the board.
type MTokenMetadata struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Image       string `json:"image"`
	ColumnTitle string `json:"column_title"`
}
