package screener

import (
	"sync"

	"github.com/wonny/superinvestor/internal/contracts"
)

// ProgressFunc receives progress updates. Calls are serialized.
type ProgressFunc func(contracts.Progress)

// Tracker remembers the latest progress of the shared run
type Tracker struct {
	mu     sync.RWMutex
	latest contracts.Progress
	seen   bool
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// Update records p as the latest progress
func (t *Tracker) Update(p contracts.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest = p
	t.seen = true
}

// Latest returns the most recent progress and whether any run reported yet
func (t *Tracker) Latest() (contracts.Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest, t.seen
}
