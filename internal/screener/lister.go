package screener

import (
	"context"
	"time"

	"github.com/wonny/superinvestor/internal/cache"
	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/pkg/logger"
)

// CachedLister memoizes a HoldingsLister for the TTL.
// Errors and empty listings are never stored.
type CachedLister struct {
	lister contracts.HoldingsLister
	store  cache.Store
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedLister wraps lister with store
func NewCachedLister(lister contracts.HoldingsLister, store cache.Store, ttl time.Duration, log *logger.Logger) *CachedLister {
	return &CachedLister{
		lister: lister,
		store:  store,
		ttl:    ttl,
		logger: log.WithComponent("lister_cache"),
	}
}

// ListHoldings returns the cached listing or fetches a fresh one.
// Under WithRefresh it always fetches.
func (l *CachedLister) ListHoldings(ctx context.Context) ([]contracts.ListingRow, error) {
	if !IsRefresh(ctx) {
		var cached []contracts.ListingRow
		hit, err := l.store.Get(ctx, cache.ListingKey, &cached)
		if err != nil {
			l.logger.WithError(err).Warn("Listing cache read failed")
		}
		if hit {
			l.logger.WithField("rows", len(cached)).Debug("Listing served from cache")
			return cached, nil
		}
	}

	rows, err := l.lister.ListHoldings(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	if err := l.store.Set(ctx, cache.ListingKey, rows, l.ttl); err != nil {
		l.logger.WithError(err).Warn("Listing cache write failed")
	}

	return rows, nil
}
