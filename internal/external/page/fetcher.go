package page

import (
	"fmt"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/pkg/config"
	"github.com/wonny/superinvestor/pkg/httputil"
	"github.com/wonny/superinvestor/pkg/logger"
)

// New returns the fetcher selected by cfg.Source.Strategy
// ⭐ SSOT: 페이지 수집 전략 선택은 이 함수에서만
func New(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) (contracts.PageFetcher, error) {
	switch cfg.Source.Strategy {
	case config.FetchPlain:
		return NewPlainFetcher(httpClient), nil
	case config.FetchHeadered:
		return NewHeaderedFetcher(httpClient, cfg.Source.UserAgent), nil
	case config.FetchRendered:
		return NewRenderedFetcher(cfg.Source.UserAgent, cfg.Source.RenderTimeout, log), nil
	default:
		return nil, fmt.Errorf("unknown fetch strategy: %s (valid: plain, headered, rendered)", cfg.Source.Strategy)
	}
}
