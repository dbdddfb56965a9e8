package dataroma

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/pkg/logger"
)

// DefaultURL is Dataroma's super-investor holdings grid
const DefaultURL = "https://www.dataroma.com/m/grid.php"

// Client lists holdings from the Dataroma grid page
// ⭐ SSOT: Dataroma 스크래핑은 이 클라이언트에서만
type Client struct {
	fetcher  contracts.PageFetcher
	logger   *logger.Logger
	url      string
	selector string
}

// NewClient creates a Dataroma client. Empty url/selector fall back to defaults.
func NewClient(fetcher contracts.PageFetcher, url, selector string, log *logger.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if selector == "" {
		selector = DefaultTableSelector
	}

	return &Client{
		fetcher:  fetcher,
		logger:   log.WithComponent("lister"),
		url:      url,
		selector: selector,
	}
}

// ListHoldings fetches and parses the holdings grid.
// Page or table failures wrap contracts.ErrSourceUnavailable; malformed rows are skipped.
func (c *Client) ListHoldings(ctx context.Context) ([]contracts.ListingRow, error) {
	start := time.Now()

	html, err := c.fetcher.Fetch(ctx, c.url)
	if err != nil {
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"url":      c.url,
			"strategy": c.fetcher.Name(),
		}).Error("Failed to fetch holdings page")
		return nil, fmt.Errorf("%w: %w", contracts.ErrSourceUnavailable, err)
	}

	rows, skipped, err := ParseHoldings(html, c.selector)
	if err != nil {
		c.logger.WithError(err).WithField("selector", c.selector).Error("Holdings table not found")
		return nil, fmt.Errorf("%w: %w", contracts.ErrSourceUnavailable, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"strategy": c.fetcher.Name(),
		"rows":     len(rows),
		"skipped":  skipped,
		"duration": time.Since(start),
	}).Info("Fetched holdings listing")

	return rows, nil
}
