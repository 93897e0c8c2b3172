package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-pulse/src/analysis"
	"token-pulse/src/models"
)

func card(id, marketCap string, tx int) models.MTokenRecord {
	return models.MTokenRecord{
		ID:        id,
		Symbol:    "SYM" + id,
		MarketCap: marketCap,
		Volume:    "$4.5K",
		Price:     "$0.000045",
		Liquidity: "3.2 BNB",
		TxCount:   models.IntPtr(tx),
		Stats:     models.MTokenStats{Replies: models.IntPtr(1234)},
	}
}

func TestRenderCard_Defaults(t *testing.T) {
	c := RenderCard(card("1", "$91.9K", 12345), models.DefaultDisplaySettings())

	assert.Equal(t, "$91.9K", c.MarketCap)
	assert.Equal(t, "$4.5K", c.Volume)
	assert.Equal(t, "$0.000045", c.Price)
	assert.Equal(t, "3.2 BNB", c.Liquidity)
	assert.Equal(t, "12,345", c.TxCount)
	assert.Equal(t, ImageRounded, c.ImageShape)
	assert.Equal(t, map[string]string{"replies": "1,234"}, c.Stats)
}

func TestRenderCard_NoDecimalsAndCircles(t *testing.T) {
	s := models.DefaultDisplaySettings()
	s.NoDecimals = true
	s.CircleImages = true

	c := RenderCard(card("1", "$91.9K", 0), s)
	assert.Equal(t, "$91K", c.MarketCap)
	assert.Equal(t, "$4K", c.Volume)
	assert.Equal(t, "$0", c.Price)
	// liquidity is not a dollar magnitude
	assert.Equal(t, "3.2 BNB", c.Liquidity)
	assert.Equal(t, ImageCircle, c.ImageShape)
}

func TestRenderCard_MissingTxCount(t *testing.T) {
	r := card("1", "$1.0K", 0)
	r.TxCount = nil
	assert.Equal(t, "0", RenderCard(r, models.DefaultDisplaySettings()).TxCount)
}

func TestRenderColumns(t *testing.T) {
	cols := []models.MColumnGroup{
		{Title: "New Pairs", Records: []models.MTokenRecord{card("1", "$10.0K", 1), card("2", "$50.0K", 2)}},
		{Title: "Migrated", Records: []models.MTokenRecord{card("3", "$1.0M", 3)}},
	}

	views := RenderColumns(cols, nil, analysis.SortByMarketCap, analysis.Descending, models.DefaultDisplaySettings())
	require.Len(t, views, 2)
	assert.Equal(t, "New Pairs", views[0].Title)
	assert.Equal(t, 2, views[0].Count)
	assert.Equal(t, "2", views[0].Cards[0].ID)
	assert.Equal(t, "marketCap", views[0].SortField)
	assert.Equal(t, "desc", views[0].SortDirection)

	only := RenderColumns(cols, []string{"Migrated"}, analysis.SortByTxCount, analysis.Ascending, models.DefaultDisplaySettings())
	require.Len(t, only, 1)
	assert.Equal(t, "Migrated", only[0].Title)

	// source order is untouched
	assert.Equal(t, "1", cols[0].Records[0].ID)
}
