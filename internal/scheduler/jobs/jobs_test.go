package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/superinvestor/internal/cache"
	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/internal/screener"
	"github.com/wonny/superinvestor/pkg/logger"
)

type stubRunner struct {
	err   error
	calls int
}

func (r *stubRunner) Refresh(ctx context.Context, progress screener.ProgressFunc) (*contracts.Result, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &contracts.Result{RunID: "r", Listed: 3, Enriched: 2}, nil
}

func TestScreenerRefreshJob(t *testing.T) {
	runner := &stubRunner{}
	job := NewScreenerRefreshJob(runner, "", logger.Nop())

	assert.Equal(t, "screener_refresh", job.Name())
	assert.Equal(t, DefaultRefreshSchedule, job.Schedule())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, runner.calls)

	custom := NewScreenerRefreshJob(runner, "@every 30m", logger.Nop())
	assert.Equal(t, "@every 30m", custom.Schedule())
}

type countingLister struct{ calls int }

func (l *countingLister) ListHoldings(ctx context.Context) ([]contracts.ListingRow, error) {
	l.calls++
	return []contracts.ListingRow{{Ticker: "AAPL", Company: "Apple Inc.", InvestorCount: 12}}, nil
}

type countingProvider struct{ calls int }

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Quote(ctx context.Context, ticker string) (*contracts.MarketQuote, error) {
	p.calls++
	price := decimal.NewNullDecimal(decimal.NewFromInt(180))
	return &contracts.MarketQuote{
		Ticker:             ticker,
		RegularMarketPrice: price,
		FiftyTwoWeekLow:    decimal.NewNullDecimal(decimal.NewFromInt(120)),
		FiftyTwoWeekHigh:   decimal.NewNullDecimal(decimal.NewFromInt(200)),
	}, nil
}

func TestScreenerRefreshJob_WarmsCache(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 30, 0, time.UTC)
	clock := func() time.Time { return now }
	log := logger.Nop()

	store := cache.NewMemoryWithClock(log, clock)
	lister := &countingLister{}
	provider := &countingProvider{}
	pipeline := screener.NewPipeline(
		screener.NewCachedLister(lister, store, cache.DefaultTTL, log),
		screener.NewEnricher(provider, store, cache.DefaultTTL, log),
		1, log,
	)
	ctx := context.Background()

	_, err := pipeline.Run(ctx, nil)
	require.NoError(t, err)

	// tick at 11:00:00 while the 10:00:30 entries are still fresh
	now = time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	require.NoError(t, NewScreenerRefreshJob(pipeline, "", log).Run(ctx))
	assert.Equal(t, 2, provider.calls, "tick re-fetches instead of reading the cache")

	// one minute after the tick the original entries would have expired
	now = now.Add(time.Minute)
	_, err = pipeline.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls, "request after the tick is served warm")
	assert.Equal(t, 2, lister.calls)
}

func TestScreenerRefreshJob_Errors(t *testing.T) {
	for _, sentinel := range []error{contracts.ErrSourceUnavailable, contracts.ErrEmptyResult} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			job := NewScreenerRefreshJob(&stubRunner{err: fmt.Errorf("list: %w", sentinel)}, "", logger.Nop())

			err := job.Run(context.Background())
			assert.ErrorIs(t, err, sentinel)
		})
	}
}

func TestCacheCleanupJob(t *testing.T) {
	store := cache.NewMemory(logger.Nop())
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "fresh", 1, cache.DefaultTTL))

	job := NewCacheCleanupJob(store, logger.Nop())
	assert.Equal(t, "cache_cleanup", job.Name())
	assert.Equal(t, "0 */5 * * * *", job.Schedule())

	require.NoError(t, job.Run(ctx))
	assert.Equal(t, 1, store.Stats().TotalCount, "fresh entries survive")
}
