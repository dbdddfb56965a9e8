package yahoo

import (
	"fmt"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/pkg/config"
	"github.com/wonny/superinvestor/pkg/httputil"
	"github.com/wonny/superinvestor/pkg/logger"
)

// NewProvider returns the quote provider selected by cfg.Quote.Provider.
// Quote traffic gets its own throttled client so the page fetch is never delayed by it.
func NewProvider(cfg *config.Config, log *logger.Logger) (contracts.QuoteProvider, error) {
	switch cfg.Quote.Provider {
	case config.ProviderChart:
		httpClient := httputil.New(cfg, log).
			WithRateLimit(cfg.Quote.RateLimit).
			WithHeader("Accept", "application/json")
		return NewChartProvider(httpClient, cfg.Quote.BaseURL, cfg.Source.UserAgent, log), nil
	case config.ProviderFinanceGo:
		return NewFinanceGoProvider(), nil
	default:
		return nil, fmt.Errorf("unknown quote provider: %s (valid: chart, financego)", cfg.Quote.Provider)
	}
}
