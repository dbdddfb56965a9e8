package dataroma

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/wonny/superinvestor/internal/contracts"
)

// DefaultTableSelector marks the holdings grid
const DefaultTableSelector = "table.grid"

// ErrTableNotFound is returned when the page has no holdings grid
var ErrTableNotFound = errors.New("holdings table not found")

// 컬럼: Ticker | Company | # of Investors | Holding Price
const minCells = 4

// ParseHoldings extracts listing rows from the grid page.
// The first row is a header. Rows with fewer than 4 cells or a
// non-numeric/negative investor count are skipped and counted.
func ParseHoldings(html string, selector string) ([]contracts.ListingRow, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, 0, ErrTableNotFound
	}

	rows := make([]contracts.ListingRow, 0)
	skipped := 0

	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // header
		}

		cells := tr.Find("td")
		if cells.Length() < minCells {
			skipped++
			return
		}

		investors, err := parseInvestorCount(cells.Eq(2).Text())
		if err != nil {
			skipped++
			return
		}

		rows = append(rows, contracts.ListingRow{
			Ticker:        strings.TrimSpace(cells.Eq(0).Text()),
			Company:       strings.TrimSpace(cells.Eq(1).Text()),
			InvestorCount: investors,
			HoldingPrice:  parsePrice(cells.Eq(3).Text()),
		})
	})

	return rows, skipped, nil
}

func parseInvestorCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative investor count: %d", n)
	}
	return n, nil
}

// CleanPrice strips the currency symbol and thousands separators
func CleanPrice(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

// parsePrice coerces the cleaned price; malformed text becomes null
func parsePrice(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(CleanPrice(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
