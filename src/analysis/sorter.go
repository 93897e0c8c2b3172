package analysis

import (
	"fmt"
	"slices"

	"token-pulse/src/models"
	"token-pulse/src/utils"
)

// SortField names a sortable record field.
type SortField string

const (
	SortByMarketCap SortField = "marketCap"
	SortByVolume    SortField = "volume"
	SortByPrice     SortField = "price"
	SortByTxCount   SortField = "txCount"
	SortByTimeAgo   SortField = "timeAgo"
)

// SortDirection is "asc" or "desc".
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Dashboard defaults for a column that has not been re-sorted.
const (
	DefaultSortField     = SortByMarketCap
	DefaultSortDirection = Descending
)

// -----------------------------------------------------------------------------

// ParseSortField validates a field name; empty selects the default.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case "":
		return DefaultSortField, nil
	case SortByMarketCap, SortByVolume, SortByPrice, SortByTxCount, SortByTimeAgo:
		return f, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// -----------------------------------------------------------------------------

// ParseSortDirection validates a direction; empty selects the default.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(s); d {
	case "":
		return DefaultSortDirection, nil
	case Ascending, Descending:
		return d, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// -----------------------------------------------------------------------------

// sortKey extracts the numeric key for a field.
func sortKey(r models.MTokenRecord, field SortField) float64 {
	switch field {
	case SortByMarketCap:
		return utils.ParseMagnitude(r.MarketCap)
	case SortByVolume:
		if r.Volume == "" {
			return 0
		}
		return utils.ParseMagnitude(r.Volume)
	case SortByPrice:
		return utils.ParseMagnitude(r.Price)
	case SortByTxCount:
		return float64(r.TxCountOrZero())
	case SortByTimeAgo:
		return float64(utils.ParseTimeAgo(r.TimeAgo))
	default:
		return 0
	}
}

// -----------------------------------------------------------------------------

// SortTokenRecords returns a new slice ordered by field. The input is not
// modified and records with equal keys keep their relative order.
func SortTokenRecords(records []models.MTokenRecord, field SortField, direction SortDirection) []models.MTokenRecord {
	type keyed struct {
		rec models.MTokenRecord
		key float64
	}
	items := make([]keyed, len(records))
	for i, r := range records {
		items[i] = keyed{rec: r, key: sortKey(r, field)}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		cmp := 0
		switch {
		case a.key < b.key:
			cmp = -1
		case a.key > b.key:
			cmp = 1
		}
		if direction == Ascending {
			return cmp
		}
		return -cmp
	})

	out := make([]models.MTokenRecord, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}
