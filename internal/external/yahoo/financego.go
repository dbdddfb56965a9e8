package yahoo

import (
	"context"
	"fmt"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"

	"github.com/wonny/superinvestor/internal/contracts"
)

// FinanceGoProvider queries quotes through github.com/piquette/finance-go
type FinanceGoProvider struct {
	get func(symbol string) (*finance.Quote, error)
}

// NewFinanceGoProvider creates a finance-go backed provider
func NewFinanceGoProvider() *FinanceGoProvider {
	return &FinanceGoProvider{get: quote.Get}
}

// Name returns the provider name
func (p *FinanceGoProvider) Name() string { return "financego" }

// Quote fetches the quote for ticker. finance-go takes no context,
// so cancellation is only checked before the call.
func (p *FinanceGoProvider) Quote(ctx context.Context, ticker string) (*contracts.MarketQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	symbol := Symbol(ticker)
	q, err := p.get(symbol)
	if err != nil {
		return nil, fmt.Errorf("finance-go quote %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("finance-go quote %s: not found", symbol)
	}

	return &contracts.MarketQuote{
		Ticker:             ticker,
		RegularMarketPrice: fromFloat(q.RegularMarketPrice),
		FiftyTwoWeekLow:    fromFloat(q.FiftyTwoWeekLow),
		FiftyTwoWeekHigh:   fromFloat(q.FiftyTwoWeekHigh),
	}, nil
}
