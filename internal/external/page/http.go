package page

import (
	"context"
	"fmt"

	"github.com/wonny/superinvestor/pkg/httputil"
)

// PlainFetcher issues an unauthenticated GET with no extra headers
type PlainFetcher struct {
	httpClient *httputil.Client
}

// NewPlainFetcher creates a plain fetcher
func NewPlainFetcher(httpClient *httputil.Client) *PlainFetcher {
	return &PlainFetcher{httpClient: httpClient}
}

// Name returns the strategy name
func (f *PlainFetcher) Name() string { return "plain" }

// Fetch returns the page HTML
func (f *PlainFetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.httpClient.GetBody(ctx, url, nil)
	if err != nil {
		return "", fmt.Errorf("plain fetch: %w", err)
	}
	return string(body), nil
}

// HeaderedFetcher sends a browser identity so the aggregator serves the real page
type HeaderedFetcher struct {
	httpClient *httputil.Client
	headers    map[string]string
}

// NewHeaderedFetcher creates a fetcher that identifies as userAgent
func NewHeaderedFetcher(httpClient *httputil.Client, userAgent string) *HeaderedFetcher {
	return &HeaderedFetcher{
		httpClient: httpClient,
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
	}
}

// Name returns the strategy name
func (f *HeaderedFetcher) Name() string { return "headered" }

// Fetch returns the page HTML
func (f *HeaderedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.httpClient.GetBody(ctx, url, f.headers)
	if err != nil {
		return "", fmt.Errorf("headered fetch: %w", err)
	}
	return string(body), nil
}
