package page

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/wonny/superinvestor/pkg/logger"
)

// RenderedFetcher loads the page in headless Chrome and returns the DOM after
// scripts ran. Used when the aggregator blocks non-browser clients.
type RenderedFetcher struct {
	timeout time.Duration
	logger  *logger.Logger
	opts    []chromedp.ExecAllocatorOption
}

// NewRenderedFetcher creates a headless-browser fetcher
func NewRenderedFetcher(userAgent string, timeout time.Duration, log *logger.Logger) *RenderedFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
	)

	return &RenderedFetcher{
		timeout: timeout,
		logger:  log.WithComponent("rendered_fetcher"),
		opts:    opts,
	}
}

// Name returns the strategy name
func (f *RenderedFetcher) Name() string { return "rendered" }

// Fetch navigates to url and returns the rendered outer HTML
func (f *RenderedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("rendered fetch: %w", err)
	}

	f.logger.WithFields(map[string]interface{}{
		"url":      url,
		"bytes":    len(html),
		"duration": time.Since(start),
	}).Debug("Page rendered")

	return html, nil
}
