package contracts

import "errors"

var (
	// ErrSourceUnavailable: aggregator page unreachable or its holdings table missing.
	// The pipeline halts before enrichment.
	ErrSourceUnavailable = errors.New("could not retrieve holdings from source; the page may have blocked the scraper")

	// ErrEmptyResult: the listing succeeded but produced no rows
	ErrEmptyResult = errors.New("no stock data available to display")
)
