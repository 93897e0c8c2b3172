package mock

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"

	"token-pulse/src/models"

	"github.com/mr-tron/base58"
)

type catalogEntry struct {
	Name   string
	Symbol string
}

var catalog = []catalogEntry{
	{Name: "Pepe", Symbol: "PEPE"},
	{Name: "Bonk", Symbol: "BONK"},
	{Name: "Wif", Symbol: "WIF"},
	{Name: "Popcat", Symbol: "POPCAT"},
	{Name: "Slerf", Symbol: "SLERF"},
	{Name: "Book of Meme", Symbol: "BOME"},
	{Name: "Wen", Symbol: "WEN"},
	{Name: "Mog Coin", Symbol: "MOG"},
	{Name: "Shiba Inu", Symbol: "SHIB"},
	{Name: "Floki", Symbol: "FLOKI"},
}

// Empty entry means no border.
var borderColors = []string{"#22c55e", "#eab308", "#a855f7", "#3b82f6", "#f43f5e", ""}

const (
	imageURLTemplate = "https://api.dicebear.com/7.x/initials/svg?seed=%s"
	seedPrice        = "$0.000..."
)

// -----------------------------------------------------------------------------
// Generator builds placeholder token records for the mock feed.
// -----------------------------------------------------------------------------

type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Generator{rng: rng}
}

// -----------------------------------------------------------------------------

// Generate returns the record for index. Identity fields depend only on
// index; counts and magnitudes are random.
func (g *Generator) Generate(index int) models.MTokenRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generate(index)
}

func (g *Generator) generate(index int) models.MTokenRecord {
	token := catalog[mod(index, len(catalog))]

	addr := make([]byte, 32)
	g.rng.Read(addr)

	return models.MTokenRecord{
		ID:          strconv.Itoa(index),
		Symbol:      token.Symbol,
		Name:        token.Name,
		Description: token.Name + " token",
		Image:       fmt.Sprintf(imageURLTemplate, token.Symbol),
		BorderColor: borderColors[mod(index, len(borderColors))],
		Address:     base58.Encode(addr),
		TimeAgo:     fmt.Sprintf("%ds", g.rng.Intn(59)+1),
		Stats: models.MTokenStats{
			Replies: models.IntPtr(g.rng.Intn(500)),
			Likes:   models.IntPtr(g.rng.Intn(1000)),
		},
		Metrics:   []models.MTokenMetric{{Label: "5m", Value: "10%", IsPositive: true}},
		MarketCap: fmt.Sprintf("$%.1fK", g.rng.Float64()*100),
		Volume:    fmt.Sprintf("$%.1fK", g.rng.Float64()*50),
		TxCount:   models.IntPtr(g.rng.Intn(800)),
		Price:     seedPrice,
		Liquidity: fmt.Sprintf("%.1f BNB", g.rng.Float64()*5),
	}
}

// -----------------------------------------------------------------------------

// GenerateColumns seeds one column per layout entry with consecutive indices.
func (g *Generator) GenerateColumns(layout []models.MColumnLayout) []models.MColumnGroup {
	g.mu.Lock()
	defer g.mu.Unlock()

	cols := make([]models.MColumnGroup, 0, len(layout))
	for _, l := range layout {
		records := make([]models.MTokenRecord, l.Count)
		for i := range records {
			records[i] = g.generate(l.StartIndex + i)
		}
		cols = append(cols, models.MColumnGroup{Title: l.Title, Records: records})
	}
	return cols
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
