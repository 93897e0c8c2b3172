package feed

import (
	"math"
	"math/rand"
	"sync"

	"token-pulse/src/models"
	"token-pulse/src/utils"
)

// Updater perturbs record prices by a bounded random factor.
type Updater struct {
	MaxChangePct float64

	mu  sync.Mutex
	rng *rand.Rand
}

// -----------------------------------------------------------------------------

// NewUpdater returns an updater drawing from rng. A nil rng is seeded from
// seed; maxChangePct <= 0 selects the default bound.
func NewUpdater(rng *rand.Rand, maxChangePct float64, seed int64) *Updater {
	if rng == nil {
		rng = rand.New(rand.NewSource(seed))
	}
	if maxChangePct <= 0 {
		maxChangePct = utils.DefaultMaxChangePct
	}
	return &Updater{MaxChangePct: maxChangePct, rng: rng}
}

// -----------------------------------------------------------------------------

// currentPrice prefers the numeric cache over the rounded display string.
func currentPrice(r models.MTokenRecord) float64 {
	if r.PreviousPrice != nil {
		return *r.PreviousPrice
	}
	return utils.ParseMagnitude(r.Price)
}

// -----------------------------------------------------------------------------

func directionOf(next, current float64) models.MChangeDirection {
	if next > current {
		return models.DirectionUp
	}
	return models.DirectionDown
}

// -----------------------------------------------------------------------------

// Tick returns a new slice where every record's price moved by a factor in
// [1-max, 1+max), floored at utils.SubCentFloor. A move that would leave the
// float64 range keeps the current price. Input records are untouched.
func (u *Updater) Tick(records []models.MTokenRecord) []models.MTokenRecord {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make([]models.MTokenRecord, len(records))
	for i, r := range records {
		current := currentPrice(r)
		change := u.rng.Float64()*2*u.MaxChangePct - u.MaxChangePct
		next := current * (1 + change)
		if math.IsInf(next, 0) || math.IsNaN(next) {
			next = current
		}
		if next < utils.SubCentFloor {
			next = utils.SubCentFloor
		}

		rec := r.Clone()
		rec.Price = utils.FormatMagnitude(next, r.Price)
		rec.PriceChangeDirection = directionOf(next, current)
		rec.PreviousPrice = &next
		out[i] = rec
	}
	return out
}

// -----------------------------------------------------------------------------

// TickColumns applies Tick to every column, keeping titles and order.
func (u *Updater) TickColumns(cols []models.MColumnGroup) []models.MColumnGroup {
	out := make([]models.MColumnGroup, len(cols))
	for i, c := range cols {
		out[i] = models.MColumnGroup{Title: c.Title, Records: u.Tick(c.Records)}
	}
	return out
}

// -----------------------------------------------------------------------------

// ApplyQuotes merges remote quotes into records by id. A numeric price
// becomes the cache and is re-rendered in the record's current magnitude
// class; a text price is taken as-is and parsed into the cache. Records
// without a quote keep their price with a neutral direction, and quotes for
// unknown ids are ignored.
func ApplyQuotes(records []models.MTokenRecord, quotes []models.MTokenQuote) []models.MTokenRecord {
	byID := make(map[string]models.MTokenQuote, len(quotes))
	for _, q := range quotes {
		byID[q.ID] = q
	}

	out := make([]models.MTokenRecord, len(records))
	for i, r := range records {
		rec := r.Clone()
		q, ok := byID[r.ID]
		if !ok || (q.Price == nil && q.PriceText == "") {
			rec.PriceChangeDirection = models.DirectionNeutral
			out[i] = rec
			continue
		}

		current := currentPrice(r)
		var next float64
		if q.Price != nil {
			next = *q.Price
			if next < utils.SubCentFloor {
				next = utils.SubCentFloor
			}
			rec.Price = utils.FormatMagnitude(next, r.Price)
		} else {
			next = utils.ParseMagnitude(q.PriceText)
			rec.Price = q.PriceText
		}

		rec.PriceChangeDirection = directionOf(next, current)
		rec.PreviousPrice = &next
		out[i] = rec
	}
	return out
}
