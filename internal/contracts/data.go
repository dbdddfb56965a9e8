package contracts

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ListingRow is one holding scraped from the aggregator grid
// ⭐ SSOT: Source Lister → Enricher 전달 단위
type ListingRow struct {
	Ticker        string              `json:"ticker"`
	Company       string              `json:"company"`
	InvestorCount int                 `json:"investor_count"`
	HoldingPrice  decimal.NullDecimal `json:"holding_price"` // null if unparsable
}

// MarketQuote is the raw provider answer for one ticker.
// Any field may be missing; a zero value is treated as missing.
type MarketQuote struct {
	Ticker             string              `json:"ticker"`
	RegularMarketPrice decimal.NullDecimal `json:"regular_market_price"`
	FiftyTwoWeekLow    decimal.NullDecimal `json:"fifty_two_week_low"`
	FiftyTwoWeekHigh   decimal.NullDecimal `json:"fifty_two_week_high"`
}

// PriceSnapshot holds current price statistics for one ticker
type PriceSnapshot struct {
	CurrentPrice     decimal.Decimal `json:"current_price"`
	Low52Week        decimal.Decimal `json:"low_52w"`
	High52Week       decimal.Decimal `json:"high_52w"`
	PercentAboveLow  decimal.Decimal `json:"pct_above_low"`  // 2dp
	PercentBelowHigh decimal.Decimal `json:"pct_below_high"` // 2dp
}

// NewPriceSnapshot derives the snapshot from a quote.
// Returns nil unless price, low and high are all present and nonzero.
// No clamping: the price may sit outside [low, high].
func NewPriceSnapshot(q *MarketQuote) *PriceSnapshot {
	if q == nil || !present(q.RegularMarketPrice) || !present(q.FiftyTwoWeekLow) || !present(q.FiftyTwoWeekHigh) {
		return nil
	}

	cur := q.RegularMarketPrice.Decimal
	low := q.FiftyTwoWeekLow.Decimal
	high := q.FiftyTwoWeekHigh.Decimal

	return &PriceSnapshot{
		CurrentPrice:     cur,
		Low52Week:        low,
		High52Week:       high,
		PercentAboveLow:  cur.Sub(low).Div(low).Mul(hundred).Round(2),
		PercentBelowHigh: high.Sub(cur).Div(high).Mul(hundred).Round(2),
	}
}

func present(d decimal.NullDecimal) bool {
	return d.Valid && !d.Decimal.IsZero()
}

// AboveLowText returns the display form, e.g. "50.0%"
func (s *PriceSnapshot) AboveLowText() string {
	return FormatPercent(s.PercentAboveLow)
}

// BelowHighText returns the display form, e.g. "10.0%"
func (s *PriceSnapshot) BelowHighText() string {
	return FormatPercent(s.PercentBelowHigh)
}

// FormatPercent renders a percentage rounded to 2dp with at least one
// fractional digit: 50 -> "50.0%", 12.345 -> "12.35%", 12.3 -> "12.3%".
func FormatPercent(d decimal.Decimal) string {
	s := d.Round(2).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}

// EnrichedRow is a listing row with market data merged in when available
type EnrichedRow struct {
	ListingRow
	Snapshot *PriceSnapshot `json:"snapshot,omitempty"`
}

// HasMarketData reports whether market columns are populated
func (r EnrichedRow) HasMarketData() bool {
	return r.Snapshot != nil
}
