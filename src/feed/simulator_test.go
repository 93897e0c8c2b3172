package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-pulse/src/helpers"
	"token-pulse/src/models"
)

type fakeSource struct {
	initial []models.MColumnGroup
	initErr error
	next    func(current []models.MColumnGroup) ([]models.MColumnGroup, error)
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchInitialData(ctx context.Context) ([]models.MColumnGroup, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	return models.CloneColumns(f.initial), nil
}

func (f *fakeSource) NextBatch(ctx context.Context, current []models.MColumnGroup) ([]models.MColumnGroup, error) {
	return f.next(current)
}

func boardOf(sizes map[string]int, order ...string) []models.MColumnGroup {
	var cols []models.MColumnGroup
	for _, title := range order {
		records := make([]models.MTokenRecord, sizes[title])
		for i := range records {
			records[i] = priced(title+"-"+string(rune('a'+i)), "$1.00")
		}
		cols = append(cols, models.MColumnGroup{Title: title, Records: records})
	}
	return cols
}

func newTestSimulator(src *fakeSource) *Simulator {
	return NewSimulator(src, 10, nil, nil)
}

func TestSimulator_InitializeAndStep(t *testing.T) {
	u := NewUpdater(nil, 0.04, 5)
	src := &fakeSource{
		initial: boardOf(map[string]int{"A": 3, "B": 2}, "A", "B"),
		next: func(current []models.MColumnGroup) ([]models.MColumnGroup, error) {
			return u.TickColumns(current), nil
		},
	}
	sim := newTestSimulator(src)

	snap, err := sim.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotInitial, snap.Type)
	assert.Equal(t, int64(0), snap.Tick)
	assert.Equal(t, 5, snap.ProcessingMetrics.Records)
	assert.Equal(t, 2, snap.ProcessingMetrics.Columns)
	assert.Equal(t, "fake", snap.ProcessingMetrics.Source)
	assert.Equal(t, models.SnapshotInitial, sim.Snapshot().Type)

	for i := 1; i <= 3; i++ {
		snap, err = sim.Step(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.SnapshotUpdate, snap.Type)
		assert.Equal(t, int64(i), snap.Tick)
		assert.Equal(t, 3, snap.Columns[0].Count())
		assert.Equal(t, 2, snap.Columns[1].Count())
	}
	assert.Equal(t, int64(3), sim.Tick())

	rec, ok := sim.Record("A-a")
	require.True(t, ok)
	assert.NotNil(t, rec.PreviousPrice)
	_, ok = sim.Record("missing")
	assert.False(t, ok)

	assert.Len(t, sim.History("A-a"), 4)
}

func TestSimulator_StepBeforeInitialize(t *testing.T) {
	sim := newTestSimulator(&fakeSource{})
	_, err := sim.Step(context.Background())

	var dsErr *helpers.DataSourceError
	assert.ErrorAs(t, err, &dsErr)
}

func TestSimulator_InitializeFailure(t *testing.T) {
	sim := newTestSimulator(&fakeSource{initErr: errors.New("offline")})
	_, err := sim.Initialize(context.Background())

	var dsErr *helpers.DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Contains(t, err.Error(), "offline")
}

func TestSimulator_RejectsReshapedBatch(t *testing.T) {
	cases := map[string]func([]models.MColumnGroup) []models.MColumnGroup{
		"dropped column": func(c []models.MColumnGroup) []models.MColumnGroup { return c[:1] },
		"renamed column": func(c []models.MColumnGroup) []models.MColumnGroup {
			c[1].Title = "Other"
			return c
		},
		"resized column": func(c []models.MColumnGroup) []models.MColumnGroup {
			c[0].Records = c[0].Records[:1]
			return c
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			src := &fakeSource{
				initial: boardOf(map[string]int{"A": 2, "B": 1}, "A", "B"),
				next: func(current []models.MColumnGroup) ([]models.MColumnGroup, error) {
					return mutate(current), nil
				},
			}
			sim := newTestSimulator(src)
			before, err := sim.Initialize(context.Background())
			require.NoError(t, err)

			_, err = sim.Step(context.Background())
			var dsErr *helpers.DataSourceError
			require.ErrorAs(t, err, &dsErr)

			after := sim.Snapshot()
			assert.Equal(t, int64(0), after.Tick)
			assert.Equal(t, before.Columns, after.Columns)
		})
	}
}

func TestSimulator_SourceErrorKeepsState(t *testing.T) {
	src := &fakeSource{
		initial: boardOf(map[string]int{"A": 1}, "A"),
		next: func([]models.MColumnGroup) ([]models.MColumnGroup, error) {
			return nil, errors.New("timeout")
		},
	}
	sim := newTestSimulator(src)
	_, err := sim.Initialize(context.Background())
	require.NoError(t, err)

	_, err = sim.Step(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int64(0), sim.Tick())
}

func TestSimulator_ListenersSeeEverySnapshot(t *testing.T) {
	u := NewUpdater(nil, 0.04, 9)
	src := &fakeSource{
		initial: boardOf(map[string]int{"A": 2}, "A"),
		next: func(current []models.MColumnGroup) ([]models.MColumnGroup, error) {
			return u.TickColumns(current), nil
		},
	}
	sim := newTestSimulator(src)

	var mu sync.Mutex
	var kinds []string
	sim.AddListener(func(s models.MFeedSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, s.Type)
		// listeners may read the simulator without deadlocking
		_ = sim.Tick()
	})

	_, err := sim.Initialize(context.Background())
	require.NoError(t, err)
	_, err = sim.Step(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{models.SnapshotInitial, models.SnapshotUpdate}, kinds)
}

func TestSimulator_SnapshotIsACopy(t *testing.T) {
	src := &fakeSource{initial: boardOf(map[string]int{"A": 1}, "A")}
	sim := newTestSimulator(src)
	_, err := sim.Initialize(context.Background())
	require.NoError(t, err)

	snap := sim.Snapshot()
	snap.Columns[0].Records[0].Price = "$999.00"
	assert.Equal(t, "$1.00", sim.Snapshot().Columns[0].Records[0].Price)
}

func TestSimulator_SlowSourceDoesNotBlockReaders(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	t.Cleanup(unblock)

	u := NewUpdater(nil, 0.04, 9)
	src := &fakeSource{
		initial: boardOf(map[string]int{"A": 2}, "A"),
		next: func(current []models.MColumnGroup) ([]models.MColumnGroup, error) {
			close(entered)
			<-release
			return u.TickColumns(current), nil
		},
	}
	sim := newTestSimulator(src)
	_, err := sim.Initialize(context.Background())
	require.NoError(t, err)

	stepped := make(chan error, 1)
	go func() {
		_, err := sim.Step(context.Background())
		stepped <- err
	}()
	<-entered

	read := make(chan models.MFeedSnapshot, 1)
	go func() {
		_, _ = sim.Record("A-a")
		_ = sim.Tick()
		read <- sim.Snapshot()
	}()

	select {
	case snap := <-read:
		assert.Equal(t, int64(0), snap.Tick)
		assert.Equal(t, 2, snap.Columns[0].Count())
	case <-time.After(time.Second):
		t.Fatal("readers blocked while the source was fetching")
	}

	unblock()
	require.NoError(t, <-stepped)
	assert.Equal(t, int64(1), sim.Tick())
}
