package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store is a keyed cache with per-entry expiry.
// Values are JSON-encoded, so every backend hands back the same bytes.
// ⭐ SSOT: 파이프라인 캐시 인터페이스 (memory / redis)
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Purger drops every cached entry and reports how many were removed
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// DefaultTTL is the listing / quote freshness window
const DefaultTTL = 1 * time.Hour

// ListingKey caches the aggregator listing (the call takes no parameters)
const ListingKey = "listing"

// QuoteKey is the per-ticker enrichment key
func QuoteKey(ticker string) string {
	return fmt.Sprintf("quote:%s", strings.ToUpper(strings.TrimSpace(ticker)))
}

// Clock returns the current time; tests swap it for a fake
type Clock func() time.Time
