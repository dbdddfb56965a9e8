package contracts

import "context"

// PageFetcher returns the raw HTML behind a URL
// ⭐ SSOT: 페이지 수집 전략 인터페이스 (plain / headered / rendered)
type PageFetcher interface {
	Name() string
	Fetch(ctx context.Context, url string) (string, error)
}

// HoldingsLister produces the super-investor holdings listing
// ⭐ SSOT: Source Lister 인터페이스
type HoldingsLister interface {
	ListHoldings(ctx context.Context) ([]ListingRow, error)
}

// QuoteProvider queries market data for one ticker
// ⭐ SSOT: 시세 제공자 인터페이스
type QuoteProvider interface {
	Name() string
	Quote(ctx context.Context, ticker string) (*MarketQuote, error)
}
