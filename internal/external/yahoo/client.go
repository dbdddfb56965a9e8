package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/pkg/httputil"
	"github.com/wonny/superinvestor/pkg/logger"
)

// DefaultBaseURL is the Yahoo Finance query host
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// ChartProvider reads live quote metadata from the v8 chart endpoint
// ⭐ SSOT: Yahoo chart API 호출은 이 클라이언트에서만
type ChartProvider struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	userAgent  string
}

// NewChartProvider creates a chart provider
func NewChartProvider(httpClient *httputil.Client, baseURL, userAgent string, log *logger.Logger) *ChartProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &ChartProvider{
		httpClient: httpClient,
		logger:     log.WithComponent("yahoo_chart"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

// chartResponse is the subset of the v8 chart payload we read
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta chartMeta `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartMeta struct {
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	FiftyTwoWeekLow    *float64 `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekHigh   *float64 `json:"fiftyTwoWeekHigh"`
}

// Name returns the provider name
func (p *ChartProvider) Name() string { return "chart" }

// Quote fetches current price and 52-week range for ticker
func (p *ChartProvider) Quote(ctx context.Context, ticker string) (*contracts.MarketQuote, error) {
	symbol := Symbol(ticker)
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", p.baseURL, url.PathEscape(symbol))

	var headers map[string]string
	if p.userAgent != "" {
		headers = map[string]string{"User-Agent": p.userAgent}
	}

	body, err := p.httpClient.GetBody(ctx, fullURL, headers)
	if err != nil {
		return nil, fmt.Errorf("chart request %s: %w", symbol, err)
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode chart response %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart error %s: %s %s", symbol, resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", symbol)
	}

	meta := resp.Chart.Result[0].Meta
	return &contracts.MarketQuote{
		Ticker:             ticker,
		RegularMarketPrice: fromFloatPtr(meta.RegularMarketPrice),
		FiftyTwoWeekLow:    fromFloatPtr(meta.FiftyTwoWeekLow),
		FiftyTwoWeekHigh:   fromFloatPtr(meta.FiftyTwoWeekHigh),
	}, nil
}

// Symbol maps an aggregator ticker to Yahoo's notation (share classes use '-': BRK.B -> BRK-B)
func Symbol(ticker string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(ticker)), ".", "-")
}

func fromFloatPtr(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*f))
}

// fromFloat treats zero as missing, matching how the quote API reports absent fields
func fromFloat(f float64) decimal.NullDecimal {
	if f == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(f))
}
