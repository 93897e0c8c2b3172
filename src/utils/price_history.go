package utils

import (
	"sync"

	"token-pulse/src/models"
)

// -----------------------------------------------------------------------------
// PriceHistory keeps a bounded in-memory price series per token id.
// -----------------------------------------------------------------------------

type PriceHistory struct {
	streams       map[string]*RingBuffer
	maxDataPoints int
	mu            sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewPriceHistory(maxDataPoints int) *PriceHistory {
	return &PriceHistory{
		streams:       make(map[string]*RingBuffer),
		maxDataPoints: maxDataPoints,
	}
}

// -----------------------------------------------------------------------------

// Add appends a sample for a token, creating its buffer on first use.
func (ph *PriceHistory) Add(tokenID string, point models.MHistoryPoint) {
	ph.mu.Lock()
	defer ph.mu.Unlock()

	buf, ok := ph.streams[tokenID]
	if !ok {
		buf = NewRingBuffer(ph.maxDataPoints)
		ph.streams[tokenID] = buf
	}
	buf.Append(point)
}

// -----------------------------------------------------------------------------

// Get returns a copy of a token's history, oldest first. Unknown ids yield nil.
func (ph *PriceHistory) Get(tokenID string) []models.MHistoryPoint {
	ph.mu.RLock()
	defer ph.mu.RUnlock()

	buf, ok := ph.streams[tokenID]
	if !ok {
		return nil
	}
	return buf.GetAll()
}

// -----------------------------------------------------------------------------

// Latest returns the most recent sample for a token.
func (ph *PriceHistory) Latest(tokenID string) (models.MHistoryPoint, bool) {
	ph.mu.RLock()
	defer ph.mu.RUnlock()

	buf, ok := ph.streams[tokenID]
	if !ok || buf.Size() == 0 {
		return models.MHistoryPoint{}, false
	}
	return buf.GetLatest(1)[0], true
}

// -----------------------------------------------------------------------------

// Retain drops every token not listed in ids.
func (ph *PriceHistory) Retain(ids map[string]struct{}) {
	ph.mu.Lock()
	defer ph.mu.Unlock()

	for id := range ph.streams {
		if _, ok := ids[id]; !ok {
			delete(ph.streams, id)
		}
	}
}

// -----------------------------------------------------------------------------

// Len returns the number of tracked tokens.
func (ph *PriceHistory) Len() int {
	ph.mu.RLock()
	defer ph.mu.RUnlock()
	return len(ph.streams)
}
