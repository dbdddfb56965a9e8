package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/superinvestor/pkg/config"
	"github.com/wonny/superinvestor/pkg/httputil"
	"github.com/wonny/superinvestor/pkg/logger"
)

func newChartServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func newChartProvider(baseURL string) *ChartProvider {
	cfg := &config.Config{HTTPTimeout: 5 * time.Second}
	return NewChartProvider(httputil.New(cfg, logger.Nop()), baseURL, "screener-test", logger.Nop())
}

func TestChartProvider_Quote(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "screener-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"BRK-B","regularMarketPrice":180,"fiftyTwoWeekLow":120,"fiftyTwoWeekHigh":200}}],"error":null}}`))
	}))
	defer server.Close()

	q, err := newChartProvider(server.URL).Quote(context.Background(), "BRK.B")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/BRK-B", gotPath)
	assert.Equal(t, "BRK.B", q.Ticker)
	assert.Equal(t, "180", q.RegularMarketPrice.Decimal.String())
	assert.Equal(t, "120", q.FiftyTwoWeekLow.Decimal.String())
	assert.Equal(t, "200", q.FiftyTwoWeekHigh.Decimal.String())
}

func TestChartProvider_MissingFields(t *testing.T) {
	server := newChartServer(t, http.StatusOK, `{"chart":{"result":[{"meta":{"symbol":"XYZ","regularMarketPrice":12.5}}],"error":null}}`)
	defer server.Close()

	q, err := newChartProvider(server.URL).Quote(context.Background(), "XYZ")
	require.NoError(t, err, "missing fields are a normal outcome")
	assert.True(t, q.RegularMarketPrice.Valid)
	assert.False(t, q.FiftyTwoWeekLow.Valid)
	assert.False(t, q.FiftyTwoWeekHigh.Valid)
}

func TestChartProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unknown ticker", http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`},
		{"api error in 200", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Bad Request","description":"x"}}}`},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`},
		{"malformed body", http.StatusOK, `<html>rate limited</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newChartServer(t, tt.status, tt.body)
			defer server.Close()

			q, err := newChartProvider(server.URL).Quote(context.Background(), "ZZZZ")
			assert.Error(t, err)
			assert.Nil(t, q)
		})
	}
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "BRK-B", Symbol("brk.b"))
	assert.Equal(t, "AAPL", Symbol(" AAPL "))
}

func TestFinanceGoProvider_Quote(t *testing.T) {
	p := &FinanceGoProvider{get: func(symbol string) (*finance.Quote, error) {
		assert.Equal(t, "AAPL", symbol)
		return &finance.Quote{RegularMarketPrice: 180, FiftyTwoWeekLow: 120, FiftyTwoWeekHigh: 0}, nil
	}}

	q, err := p.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "180", q.RegularMarketPrice.Decimal.String())
	assert.True(t, q.FiftyTwoWeekLow.Valid)
	assert.False(t, q.FiftyTwoWeekHigh.Valid, "zero means missing")
}

func TestFinanceGoProvider_Failures(t *testing.T) {
	notFound := &FinanceGoProvider{get: func(string) (*finance.Quote, error) { return nil, nil }}
	_, err := notFound.Quote(context.Background(), "ZZZZ")
	assert.Error(t, err)

	broken := &FinanceGoProvider{get: func(string) (*finance.Quote, error) { return nil, errors.New("remote error") }}
	_, err = broken.Quote(context.Background(), "ZZZZ")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = broken.Quote(ctx, "ZZZZ")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewProvider(t *testing.T) {
	cfg := &config.Config{Quote: config.QuoteConfig{Provider: config.ProviderChart}}
	p, err := NewProvider(cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "chart", p.Name())

	cfg.Quote.Provider = config.ProviderFinanceGo
	p, err = NewProvider(cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "financego", p.Name())

	cfg.Quote.Provider = "bloomberg"
	_, err = NewProvider(cfg, logger.Nop())
	assert.Error(t, err)
}
