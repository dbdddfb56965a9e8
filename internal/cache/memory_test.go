package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/superinvestor/pkg/logger"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 8, 9, 0, 0, 0, time.UTC)}
}

func TestMemory_SetGet(t *testing.T) {
	clock := newFakeClock()
	m := NewMemoryWithClock(logger.Nop(), clock.Now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, QuoteKey("aapl"), map[string]int{"investors": 12}, time.Hour))

	var got map[string]int
	found, err := m.Get(ctx, "quote:AAPL", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 12, got["investors"])
}

func TestMemory_Expiry(t *testing.T) {
	clock := newFakeClock()
	m := NewMemoryWithClock(logger.Nop(), clock.Now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, ListingKey, []string{"AAPL"}, DefaultTTL))

	var got []string
	clock.Advance(59 * time.Minute)
	found, _ := m.Get(ctx, ListingKey, &got)
	assert.True(t, found, "still fresh inside the window")

	clock.Advance(time.Minute)
	found, _ = m.Get(ctx, ListingKey, &got)
	assert.False(t, found, "expired at exactly one hour")
}

func TestMemory_ZeroTTLStoresNothing(t *testing.T) {
	m := NewMemory(logger.Nop())
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, ListingKey, []string{"AAPL"}, 0))

	var got []string
	found, err := m.Get(ctx, ListingKey, &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, m.Stats().TotalCount)
}

func TestMemory_CleanStaleAndStats(t *testing.T) {
	clock := newFakeClock()
	m := NewMemoryWithClock(logger.Nop(), clock.Now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short", 1, time.Minute))
	require.NoError(t, m.Set(ctx, "long", 2, time.Hour))

	clock.Advance(2 * time.Minute)

	stats := m.Stats()
	assert.Equal(t, Stats{TotalCount: 2, FreshCount: 1, StaleCount: 1}, stats)

	assert.Equal(t, 1, m.CleanStale())
	assert.Equal(t, 1, m.Stats().TotalCount)
}

func TestMemory_Purge(t *testing.T) {
	clock := newFakeClock()
	m := NewMemoryWithClock(logger.Nop(), clock.Now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, ListingKey, []string{"AAPL"}, time.Hour))
	require.NoError(t, m.Set(ctx, QuoteKey("AAPL"), 1, time.Minute))
	clock.Advance(2 * time.Minute)

	var p Purger = m
	n, err := p.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "stale entries are counted too")
	assert.Equal(t, 0, m.Stats().TotalCount)

	var rows []string
	hit, err := m.Get(ctx, ListingKey, &rows)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory_BadDestination(t *testing.T) {
	m := NewMemory(logger.Nop())
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "text", time.Hour))

	var n int
	_, err := m.Get(ctx, "k", &n)
	assert.Error(t, err)
}

func TestQuoteKey(t *testing.T) {
	assert.Equal(t, "quote:BRK.B", QuoteKey(" brk.b "))
}
