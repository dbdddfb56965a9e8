package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/superinvestor/pkg/logger"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process Store with expiry timestamps
// ⭐ SSOT: 인메모리 캐싱은 이 구조체에서만
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     Clock
	logger  *logger.Logger
}

// NewMemory creates a new memory store using the wall clock
func NewMemory(log *logger.Logger) *Memory {
	return NewMemoryWithClock(log, time.Now)
}

// NewMemoryWithClock creates a memory store driven by clock
func NewMemoryWithClock(log *logger.Logger, clock Clock) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     clock,
		logger:  log.WithComponent("cache"),
	}
}

// Get decodes the entry under key into dest.
// Expired entries count as a miss.
func (m *Memory) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	e, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		return false, nil
	}

	if !m.now().Before(e.expiresAt) {
		m.logger.WithField("key", key).Debug("Cache entry expired")
		return false, nil
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores value under key for ttl. ttl <= 0 stores nothing.
func (m *Memory) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	m.mu.Lock()
	m.entries[key] = entry{data: data, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()

	return nil
}

// Purge drops every entry, fresh or not, and returns how many were dropped
func (m *Memory) Purge(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.entries)
	m.entries = make(map[string]entry)
	m.logger.WithField("count", count).Info("Purged cache")

	return count, nil
}

// CleanStale removes expired entries and returns how many were dropped
func (m *Memory) CleanStale() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	count := 0

	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
			count++
		}
	}

	if count > 0 {
		m.logger.WithField("count", count).Info("Cleaned stale entries from cache")
	}

	return count
}

// Stats returns cache statistics
func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{TotalCount: len(m.entries)}

	now := m.now()
	for _, e := range m.entries {
		if !now.Before(e.expiresAt) {
			stats.StaleCount++
		}
	}
	stats.FreshCount = stats.TotalCount - stats.StaleCount

	return stats
}

// Stats represents cache statistics
type Stats struct {
	TotalCount int `json:"total_count"`
	FreshCount int `json:"fresh_count"`
	StaleCount int `json:"stale_count"`
}
