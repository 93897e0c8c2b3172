package models

// MDisplaySettings controls how records are rendered. It is replaced
// wholesale on change; never mutate a value that has been handed out.
type MDisplaySettings struct {
	MetricsSize      string `json:"metrics_size"`   // small | large
	QuickBuySize     string `json:"quick_buy_size"` // small | large | mega | ultra
	QuickBuyAmount   int    `json:"quick_buy_amount"`
	Theme            string `json:"theme"` // grey | dark
	ShowSearchBar    bool   `json:"show_search_bar"`
	NoDecimals       bool   `json:"no_decimals"`
	ShowHiddenTokens bool   `json:"show_hidden_tokens"`
	UnhideOnMigrated bool   `json:"unhide_on_migrated"`
	CircleImages     bool   `json:"circle_images"`
	ProgressBar      bool   `json:"progress_bar"`
}

// DefaultDisplaySettings returns the settings a fresh session starts with.
func DefaultDisplaySettings() MDisplaySettings {
	return MDisplaySettings{
		MetricsSize:      "large",
		QuickBuySize:     "small",
		QuickBuyAmount:   47,
		Theme:            "grey",
		ShowSearchBar:    true,
		NoDecimals:       false,
		ShowHiddenTokens: false,
		UnhideOnMigrated: false,
		CircleImages:     false,
		ProgressBar:      true,
	}
}
