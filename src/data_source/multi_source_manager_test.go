package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-pulse/src/interfaces"
	"token-pulse/src/models"
)

type namedSource struct {
	name string
}

func (s *namedSource) Name() string { return s.name }

func (s *namedSource) FetchInitialData(ctx context.Context) ([]models.MColumnGroup, error) {
	return []models.MColumnGroup{{Title: s.name}}, nil
}

func (s *namedSource) NextBatch(ctx context.Context, current []models.MColumnGroup) ([]models.MColumnGroup, error) {
	return []models.MColumnGroup{{Title: s.name + "-next"}}, nil
}

func TestMultiSourceManager_FirstSourceIsActive(t *testing.T) {
	m := NewMultiSourceManager([]interfaces.IFeedSource{&namedSource{"mock"}, &namedSource{"remote"}}, nil)

	assert.Equal(t, "mock", m.ActiveName())
	assert.Equal(t, "mock", m.Name())
	assert.Equal(t, []string{"mock", "remote"}, m.SourceNames())

	cols, err := m.FetchInitialData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mock", cols[0].Title)
}

func TestMultiSourceManager_SwitchAndDelegate(t *testing.T) {
	m := NewMultiSourceManager([]interfaces.IFeedSource{&namedSource{"mock"}, &namedSource{"remote"}}, nil)

	require.NoError(t, m.SetActive("remote"))
	cols, err := m.NextBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "remote-next", cols[0].Title)

	assert.Error(t, m.SetActive("missing"))
	assert.Equal(t, "remote", m.ActiveName())
}

func TestMultiSourceManager_AddAndGet(t *testing.T) {
	m := NewMultiSourceManager(nil, nil)
	assert.Equal(t, "MultiSourceManager", m.Name())
	_, err := m.FetchInitialData(context.Background())
	assert.Error(t, err)

	require.NoError(t, m.AddSource(&namedSource{"mock"}))
	assert.Equal(t, "mock", m.ActiveName())
	assert.Error(t, m.AddSource(&namedSource{"mock"}))

	require.NoError(t, m.AddSource(&namedSource{"remote"}))
	assert.Equal(t, "mock", m.ActiveName(), "adding does not steal the active slot")

	_, err = m.GetSource("missing")
	assert.Error(t, err)
	src, err := m.GetSource("remote")
	require.NoError(t, err)
	assert.Equal(t, "remote", src.Name())
}
