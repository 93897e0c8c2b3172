package feed

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-pulse/src/models"
	"token-pulse/src/utils"
)

func priced(id, price string) models.MTokenRecord {
	return models.MTokenRecord{ID: id, Symbol: "T" + id, Price: price, MarketCap: "$10.0K"}
}

func TestUpdater_TickStaysWithinBound(t *testing.T) {
	u := NewUpdater(rand.New(rand.NewSource(7)), 0.04, 0)
	records := []models.MTokenRecord{priced("1", "$12.00"), priced("2", "$0.000500")}

	for i := 0; i < 200; i++ {
		next := u.Tick(records)
		require.Len(t, next, len(records))
		for j, r := range next {
			before := currentPrice(records[j])
			require.NotNil(t, r.PreviousPrice)
			after := *r.PreviousPrice
			assert.GreaterOrEqual(t, after, before*0.96-1e-12)
			assert.LessOrEqual(t, after, before*1.04+1e-12)
			assert.Equal(t, directionOf(after, before), r.PriceChangeDirection)
		}
		records = next
	}
}

func TestUpdater_KeepsMagnitudeClass(t *testing.T) {
	u := NewUpdater(nil, 0, 3)
	out := u.Tick([]models.MTokenRecord{priced("1", "$0.000500"), priced("2", "$1.5K")})

	assert.Equal(t, utils.ClassSubCent, utils.ClassOf(out[0].Price))
	assert.Equal(t, utils.ClassThousands, utils.ClassOf(out[1].Price))
	assert.Equal(t, utils.DefaultMaxChangePct, u.MaxChangePct)
}

func TestUpdater_FloorsAtSubCent(t *testing.T) {
	u := NewUpdater(rand.New(rand.NewSource(11)), 0.5, 0)
	records := []models.MTokenRecord{priced("1", "$0.000001")}
	for i := 0; i < 100; i++ {
		records = u.Tick(records)
		require.GreaterOrEqual(t, *records[0].PreviousPrice, utils.SubCentFloor)
	}
}

func TestUpdater_OverflowingPricesStayFinite(t *testing.T) {
	u := NewUpdater(rand.New(rand.NewSource(13)), 0.04, 0)
	records := []models.MTokenRecord{priced("1", "$1e400K"), priced("2", "$1.79e308")}

	require.NotPanics(t, func() { records = u.Tick(records) })
	assert.Equal(t, utils.SubCentFloor, *records[0].PreviousPrice)

	for i := 0; i < 20; i++ {
		require.NotPanics(t, func() { records = u.Tick(records) })
		for _, r := range records {
			require.NotNil(t, r.PreviousPrice)
			assert.False(t, math.IsInf(*r.PreviousPrice, 0), "id %s", r.ID)
			assert.False(t, math.IsNaN(*r.PreviousPrice), "id %s", r.ID)
		}
	}
}

func TestUpdater_TickDoesNotMutateInput(t *testing.T) {
	u := NewUpdater(nil, 0.04, 1)
	in := []models.MTokenRecord{priced("1", "$5.00")}
	_ = u.Tick(in)

	assert.Equal(t, "$5.00", in[0].Price)
	assert.Nil(t, in[0].PreviousPrice)
	assert.Empty(t, in[0].PriceChangeDirection)
}

func TestUpdater_TickColumnsKeepsShape(t *testing.T) {
	u := NewUpdater(nil, 0.04, 1)
	cols := []models.MColumnGroup{
		{Title: "A", Records: []models.MTokenRecord{priced("1", "$1.00"), priced("2", "$2.00")}},
		{Title: "B", Records: []models.MTokenRecord{}},
	}
	out := u.TickColumns(cols)

	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, 2, out[0].Count())
	assert.Equal(t, "B", out[1].Title)
	assert.Equal(t, 0, out[1].Count())
	assert.Equal(t, "1", out[0].Records[0].ID)
}

func TestDirectionOf_EqualIsDown(t *testing.T) {
	assert.Equal(t, models.DirectionUp, directionOf(2, 1))
	assert.Equal(t, models.DirectionDown, directionOf(1, 2))
	assert.Equal(t, models.DirectionDown, directionOf(1, 1))
}

func TestApplyQuotes(t *testing.T) {
	up := 2.0
	floor := 0.0
	records := []models.MTokenRecord{
		priced("1", "$1.00"),
		priced("2", "$0.000500"),
		priced("3", "$3.00"),
		priced("4", "$4.00"),
	}
	quotes := []models.MTokenQuote{
		{ID: "1", Price: &up},
		{ID: "2", Price: &floor},
		{ID: "4", PriceText: "$3.5"},
		{ID: "unknown", Price: &up},
	}

	out := ApplyQuotes(records, quotes)
	require.Len(t, out, 4)

	assert.Equal(t, "$2.00", out[0].Price)
	assert.Equal(t, models.DirectionUp, out[0].PriceChangeDirection)

	assert.Equal(t, "$0.000001", out[1].Price)
	assert.Equal(t, utils.SubCentFloor, *out[1].PreviousPrice)
	assert.Equal(t, models.DirectionDown, out[1].PriceChangeDirection)

	assert.Equal(t, "$3.00", out[2].Price)
	assert.Equal(t, models.DirectionNeutral, out[2].PriceChangeDirection)
	assert.Nil(t, out[2].PreviousPrice)

	assert.Equal(t, "$3.5", out[3].Price)
	assert.InDelta(t, 3.5, *out[3].PreviousPrice, 1e-12)
	assert.Equal(t, models.DirectionDown, out[3].PriceChangeDirection)

	// input untouched
	assert.Equal(t, "$1.00", records[0].Price)
}
