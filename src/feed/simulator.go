package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"token-pulse/src/helpers"
	"token-pulse/src/interfaces"
	"token-pulse/src/logger"
	"token-pulse/src/models"
	"token-pulse/src/observability"
	"token-pulse/src/utils"
)

// Listener receives every snapshot the simulator publishes.
type Listener func(snapshot models.MFeedSnapshot)

// -----------------------------------------------------------------------------
// Simulator owns the live column set and advances it one batch per tick.
// -----------------------------------------------------------------------------

type Simulator struct {
	Source  interfaces.IFeedSource
	Metrics *observability.Metrics
	Logger  *logger.Logger

	prices *utils.PriceHistory

	// stepMu serializes Initialize and Step; mu guards the state below.
	stepMu      sync.Mutex
	mu          sync.Mutex
	columns     []models.MColumnGroup
	index       map[string]recordPos
	tick        int64
	lastMetrics models.MProcessingMetrics
	lastAt      time.Time

	listenersMu sync.RWMutex
	listeners   []Listener

	now func() time.Time
}

type recordPos struct {
	col, row int
}

// -----------------------------------------------------------------------------

func NewSimulator(source interfaces.IFeedSource, historySize int, metrics *observability.Metrics, log *logger.Logger) *Simulator {
	if log == nil {
		log = logger.NewLogger(nil, "Simulator")
	}
	return &Simulator{
		Source:  source,
		prices:  utils.NewPriceHistory(historySize),
		Metrics: metrics,
		Logger:  log,
		now:     time.Now,
	}
}

// -----------------------------------------------------------------------------

// AddListener registers fn for every published snapshot.
// Listeners run on the publishing goroutine, outside the simulator lock.
func (s *Simulator) AddListener(fn Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// -----------------------------------------------------------------------------

func (s *Simulator) notify(snapshot models.MFeedSnapshot) {
	s.listenersMu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// -----------------------------------------------------------------------------

// Initialize loads the starting column set from the source and publishes it.
// Calling it again replaces the whole set, e.g. after a source switch.
func (s *Simulator) Initialize(ctx context.Context) (models.MFeedSnapshot, error) {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	start := s.now()
	cols, err := s.Source.FetchInitialData(ctx)
	if err != nil {
		return models.MFeedSnapshot{}, helpers.NewDataSourceError(fmt.Sprintf("initial fetch from %s failed", s.Source.Name()), err)
	}

	s.mu.Lock()
	s.columns = models.CloneColumns(cols)
	s.tick = 0
	s.reindex()
	s.recordHistory(start)
	s.lastMetrics = s.processingMetrics(s.now().Sub(start))
	s.lastAt = start
	snap := s.snapshotLocked(models.SnapshotInitial)
	s.mu.Unlock()

	s.Logger.Info("Feed initialized from %s: %d columns, %d records", s.Source.Name(), len(cols), s.lastMetrics.Records)
	s.notify(snap)
	return snap, nil
}

// -----------------------------------------------------------------------------

// Step pulls the next batch from the source and swaps it in. A batch whose
// shape differs from the current column set is rejected and the previous
// state is kept. Steps are serialized; readers are only blocked for the swap,
// not while the source is fetching.
func (s *Simulator) Step(ctx context.Context) (models.MFeedSnapshot, error) {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	s.mu.Lock()
	if s.columns == nil {
		s.mu.Unlock()
		return models.MFeedSnapshot{}, helpers.NewDataSourceError("feed is not initialized", nil)
	}
	current := models.CloneColumns(s.columns)
	s.mu.Unlock()

	start := s.now()
	next, err := s.Source.NextBatch(ctx, current)
	if err != nil {
		s.Metrics.RecordTickError()
		return models.MFeedSnapshot{}, helpers.NewDataSourceError(fmt.Sprintf("next batch from %s failed", s.Source.Name()), err)
	}

	s.mu.Lock()
	if err := sameShape(s.columns, next); err != nil {
		s.mu.Unlock()
		s.Metrics.RecordTickError()
		return models.MFeedSnapshot{}, helpers.NewDataSourceError("batch rejected", err)
	}

	s.columns = models.CloneColumns(next)
	s.tick++
	s.reindex()
	s.recordHistory(start)

	elapsed := s.now().Sub(start)
	s.lastMetrics = s.processingMetrics(elapsed)
	s.lastAt = start
	snap := s.snapshotLocked(models.SnapshotUpdate)

	sizes := make(map[string]int, len(s.columns))
	up, down := 0, 0
	for _, c := range s.columns {
		sizes[c.Title] = c.Count()
		for _, r := range c.Records {
			switch r.PriceChangeDirection {
			case models.DirectionUp:
				up++
			case models.DirectionDown:
				down++
			}
		}
	}
	s.mu.Unlock()

	s.Metrics.RecordTick(elapsed, sizes, up, down)
	s.notify(snap)
	return snap, nil
}

// -----------------------------------------------------------------------------

func sameShape(current, next []models.MColumnGroup) error {
	if len(current) != len(next) {
		return fmt.Errorf("column count changed from %d to %d", len(current), len(next))
	}
	for i := range current {
		if current[i].Title != next[i].Title {
			return fmt.Errorf("column %d changed title from '%s' to '%s'", i, current[i].Title, next[i].Title)
		}
		if current[i].Count() != next[i].Count() {
			return fmt.Errorf("column '%s' changed size from %d to %d", current[i].Title, current[i].Count(), next[i].Count())
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *Simulator) reindex() {
	s.index = make(map[string]recordPos)
	ids := make(map[string]struct{})
	for ci, c := range s.columns {
		for ri, r := range c.Records {
			s.index[r.ID] = recordPos{col: ci, row: ri}
			ids[r.ID] = struct{}{}
		}
	}
	s.prices.Retain(ids)
}

// -----------------------------------------------------------------------------

func (s *Simulator) recordHistory(at time.Time) {
	ts := at.UnixMilli()
	for _, c := range s.columns {
		for _, r := range c.Records {
			s.prices.Add(r.ID, models.MHistoryPoint{Timestamp: ts, Price: currentPrice(r)})
		}
	}
}

// -----------------------------------------------------------------------------

func (s *Simulator) processingMetrics(elapsed time.Duration) models.MProcessingMetrics {
	records := 0
	for _, c := range s.columns {
		records += c.Count()
	}
	return models.MProcessingMetrics{
		TickDurationSeconds: elapsed.Seconds(),
		Records:             records,
		Columns:             len(s.columns),
		Source:              s.Source.Name(),
	}
}

// -----------------------------------------------------------------------------

func (s *Simulator) snapshotLocked(kind string) models.MFeedSnapshot {
	return models.MFeedSnapshot{
		Type:              kind,
		Columns:           models.CloneColumns(s.columns),
		Tick:              s.tick,
		Timestamp:         s.lastAt.UnixMilli(),
		ProcessingMetrics: s.lastMetrics,
	}
}

// -----------------------------------------------------------------------------

// Snapshot returns a copy of the current state. Before the first tick its
// type is INITIAL.
func (s *Simulator) Snapshot() models.MFeedSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := models.SnapshotUpdate
	if s.tick == 0 {
		kind = models.SnapshotInitial
	}
	return s.snapshotLocked(kind)
}

// -----------------------------------------------------------------------------

// Tick returns the number of accepted steps since Initialize.
func (s *Simulator) Tick() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// -----------------------------------------------------------------------------

// Record looks up a token by id.
func (s *Simulator) Record(id string) (models.MTokenRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return models.MTokenRecord{}, false
	}
	return s.columns[pos.col].Records[pos.row].Clone(), true
}

// -----------------------------------------------------------------------------

// History returns a token's in-memory price series, oldest first.
func (s *Simulator) History(id string) []models.MHistoryPoint {
	return s.prices.Get(id)
}
