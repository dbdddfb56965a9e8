package screener

import (
	"context"
	"time"

	"github.com/wonny/superinvestor/internal/cache"
	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/pkg/logger"
)

// cachedQuote records an enrichment outcome, including "no data"
type cachedQuote struct {
	Found    bool                     `json:"found"`
	Snapshot *contracts.PriceSnapshot `json:"snapshot,omitempty"`
}

// Enricher attaches current market statistics to listing rows
// ⭐ SSOT: 시세 조회 + 스냅샷 계산은 이 구조체에서만
type Enricher struct {
	provider contracts.QuoteProvider
	store    cache.Store
	ttl      time.Duration
	logger   *logger.Logger
}

// NewEnricher creates an enricher. A nil store disables caching.
func NewEnricher(provider contracts.QuoteProvider, store cache.Store, ttl time.Duration, log *logger.Logger) *Enricher {
	return &Enricher{
		provider: provider,
		store:    store,
		ttl:      ttl,
		logger:   log.WithComponent("enricher"),
	}
}

// Snapshot derives price statistics from a raw quote (nil when incomplete)
func Snapshot(q *contracts.MarketQuote) *contracts.PriceSnapshot {
	return contracts.NewPriceSnapshot(q)
}

// Enrich returns the snapshot for ticker, or nil when market data is unavailable.
// Provider errors never propagate.
// Under WithRefresh the cache is bypassed on read, and a failed lookup leaves
// the previous entry in place instead of overwriting it with "no data".
func (e *Enricher) Enrich(ctx context.Context, ticker string) *contracts.PriceSnapshot {
	key := cache.QuoteKey(ticker)
	refresh := IsRefresh(ctx)

	if e.store != nil && !refresh {
		var cached cachedQuote
		hit, err := e.store.Get(ctx, key, &cached)
		if err != nil {
			e.logger.WithError(err).WithField("key", key).Warn("Quote cache read failed")
		}
		if hit {
			return cached.Snapshot
		}
	}

	q, err := e.provider.Quote(ctx, ticker)
	if err != nil {
		e.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker":   ticker,
			"provider": e.provider.Name(),
		}).Debug("Market data unavailable")
	}

	snap := Snapshot(q)

	// 취소된 요청의 결과는 캐시하지 않음
	if e.store == nil || ctx.Err() != nil || (refresh && err != nil) {
		return snap
	}

	entry := cachedQuote{Found: snap != nil, Snapshot: snap}
	if err := e.store.Set(ctx, key, entry, e.ttl); err != nil {
		e.logger.WithError(err).WithField("key", key).Warn("Quote cache write failed")
	}

	return snap
}
