package display

import (
	"token-pulse/src/analysis"
	"token-pulse/src/models"
	"token-pulse/src/utils"

	"github.com/dustin/go-humanize"
)

const (
	ImageCircle  = "circle"
	ImageRounded = "rounded"
)

// -----------------------------------------------------------------------------

func optionalCount(p *int) (string, bool) {
	if p == nil {
		return "", false
	}
	return humanize.Comma(int64(*p)), true
}

// -----------------------------------------------------------------------------

// RenderCard formats one record for display. Dollar magnitudes honour
// no_decimals; the image shape follows circle_images.
func RenderCard(r models.MTokenRecord, settings models.MDisplaySettings) models.MTokenCard {
	shape := ImageRounded
	if settings.CircleImages {
		shape = ImageCircle
	}

	stats := make(map[string]string)
	for name, v := range map[string]*int{
		"replies": r.Stats.Replies,
		"likes":   r.Stats.Likes,
		"views":   r.Stats.Views,
		"holders": r.Stats.Holders,
	} {
		if s, ok := optionalCount(v); ok {
			stats[name] = s
		}
	}

	return models.MTokenCard{
		ID:                   r.ID,
		Symbol:               r.Symbol,
		Name:                 r.Name,
		Description:          r.Description,
		Image:                r.Image,
		ImageShape:           shape,
		BorderColor:          r.BorderColor,
		Address:              r.Address,
		TimeAgo:              r.TimeAgo,
		MarketCap:            utils.FormatForDisplay(r.MarketCap, &settings),
		Volume:               utils.FormatForDisplay(r.Volume, &settings),
		Price:                utils.FormatForDisplay(r.Price, &settings),
		Liquidity:            r.Liquidity,
		TxCount:              humanize.Comma(int64(r.TxCountOrZero())),
		Stats:                stats,
		Metrics:              append([]models.MTokenMetric(nil), r.Metrics...),
		PriceChangeDirection: r.PriceChangeDirection,
	}
}

// -----------------------------------------------------------------------------

// RenderColumn sorts a column and renders its cards.
func RenderColumn(col models.MColumnGroup, field analysis.SortField, direction analysis.SortDirection, settings models.MDisplaySettings) models.MColumnView {
	sorted := analysis.SortTokenRecords(col.Records, field, direction)
	cards := make([]models.MTokenCard, len(sorted))
	for i, r := range sorted {
		cards[i] = RenderCard(r, settings)
	}
	return models.MColumnView{
		Title:         col.Title,
		Count:         col.Count(),
		SortField:     string(field),
		SortDirection: string(direction),
		Cards:         cards,
	}
}

// -----------------------------------------------------------------------------

// RenderColumns renders every column, or only those named in titles when
// it is non-empty. Order follows cols.
func RenderColumns(cols []models.MColumnGroup, titles []string, field analysis.SortField, direction analysis.SortDirection, settings models.MDisplaySettings) []models.MColumnView {
	want := make(map[string]bool, len(titles))
	for _, t := range titles {
		want[t] = true
	}

	views := make([]models.MColumnView, 0, len(cols))
	for _, c := range cols {
		if len(want) > 0 && !want[c.Title] {
			continue
		}
		views = append(views, RenderColumn(c, field, direction, settings))
	}
	return views
}
