package mock

import (
	"context"
	"math/rand"
	"time"

	"token-pulse/src/feed"
	"token-pulse/src/logger"
	"token-pulse/src/models"
)

// MockSource seeds columns with the generator and moves prices with the
// feed updater on every batch.
type MockSource struct {
	Layout    []models.MColumnLayout
	Generator *Generator
	Updater   *feed.Updater
	Logger    *logger.Logger
}

// -----------------------------------------------------------------------------

// NewMockSource builds a source from the feed config. Seed 0 draws a
// time-based seed.
func NewMockSource(cfg *models.MConfig, log *logger.Logger) *MockSource {
	seed := cfg.Feed.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if log == nil {
		log = logger.NewLogger(cfg, "MockSource")
	}

	return &MockSource{
		Layout:    cfg.Feed.Columns,
		Generator: NewGenerator(rand.New(rand.NewSource(seed))),
		Updater:   feed.NewUpdater(rand.New(rand.NewSource(seed+1)), cfg.Feed.MaxChangePct, 0),
		Logger:    log,
	}
}

// -----------------------------------------------------------------------------

func (s *MockSource) Name() string {
	return "mock"
}

// -----------------------------------------------------------------------------

func (s *MockSource) FetchInitialData(ctx context.Context) ([]models.MColumnGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cols := s.Generator.GenerateColumns(s.Layout)
	s.Logger.Debug("Generated %d mock columns", len(cols))
	return cols, nil
}

// -----------------------------------------------------------------------------

func (s *MockSource) NextBatch(ctx context.Context, current []models.MColumnGroup) ([]models.MColumnGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Updater.TickColumns(current), nil
}
