package datasource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"token-pulse/src/interfaces"
	"token-pulse/src/logger"
	"token-pulse/src/models"
)

// MultiSourceManager holds named feed sources and forwards to the active one.
// It satisfies interfaces.IFeedSource itself.
type MultiSourceManager struct {
	Sources map[string]interfaces.IFeedSource
	Logger  *logger.Logger
	active  string
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

// NewMultiSourceManager registers sources; the first one becomes active.
func NewMultiSourceManager(sources []interfaces.IFeedSource, log *logger.Logger) *MultiSourceManager {
	if log == nil {
		log = logger.NewLogger(nil, "MultiSourceManager")
	}
	m := &MultiSourceManager{
		Sources: make(map[string]interfaces.IFeedSource),
		Logger:  log,
	}

	for _, s := range sources {
		m.Sources[s.Name()] = s
		if m.active == "" {
			m.active = s.Name()
		}
	}

	return m
}

// -----------------------------------------------------------------------------

// AddSource registers a new source. It becomes active if none is.
func (m *MultiSourceManager) AddSource(source interfaces.IFeedSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := source.Name()
	if _, exists := m.Sources[name]; exists {
		return fmt.Errorf("source %s already exists", name)
	}

	m.Sources[name] = source
	if m.active == "" {
		m.active = name
	}
	m.Logger.Info("Added source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// GetSource retrieves a source by name
func (m *MultiSourceManager) GetSource(name string) (interfaces.IFeedSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, exists := m.Sources[name]
	if !exists {
		return nil, fmt.Errorf("source %s not found", name)
	}
	return source, nil
}

// -----------------------------------------------------------------------------

// SourceNames lists registered sources in name order.
func (m *MultiSourceManager) SourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.Sources))
	for name := range m.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

// SetActive switches the source used for subsequent fetches. Callers should
// re-initialize the feed afterwards since the new source may carry other ids.
func (m *MultiSourceManager) SetActive(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Sources[name]; !exists {
		return fmt.Errorf("source %s not found", name)
	}
	if m.active != name {
		m.Logger.Info("Switching active source %s -> %s", m.active, name)
		m.active = name
	}
	return nil
}

// -----------------------------------------------------------------------------

// ActiveName returns the active source name.
func (m *MultiSourceManager) ActiveName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// -----------------------------------------------------------------------------

func (m *MultiSourceManager) activeSource() (interfaces.IFeedSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, ok := m.Sources[m.active]
	if !ok {
		return nil, fmt.Errorf("no active source")
	}
	return source, nil
}

// -----------------------------------------------------------------------------

// Name reports the active source, so snapshots show where data came from.
func (m *MultiSourceManager) Name() string {
	if name := m.ActiveName(); name != "" {
		return name
	}
	return "MultiSourceManager"
}

// -----------------------------------------------------------------------------

func (m *MultiSourceManager) FetchInitialData(ctx context.Context) ([]models.MColumnGroup, error) {
	source, err := m.activeSource()
	if err != nil {
		return nil, err
	}
	return source.FetchInitialData(ctx)
}

// -----------------------------------------------------------------------------

func (m *MultiSourceManager) NextBatch(ctx context.Context, current []models.MColumnGroup) ([]models.MColumnGroup, error) {
	source, err := m.activeSource()
	if err != nil {
		return nil, err
	}
	return source.NextBatch(ctx, current)
}
