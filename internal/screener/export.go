package screener

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/superinvestor/internal/contracts"
)

// DefaultCSVName is the download file name
const DefaultCSVName = "super_investor_stocks.csv"

// Columns is the export header, in order
var Columns = []string{
	"Ticker",
	"Company",
	"# of Investors",
	"Holding Price",
	"Current Price",
	"52W Low",
	"52W High",
	"% Above 52W Low",
	"% Below 52W High",
}

// Record renders one row as display cells. Absent values are empty strings.
func Record(row contracts.EnrichedRow) []string {
	rec := []string{
		row.Ticker,
		row.Company,
		strconv.Itoa(row.InvestorCount),
		nullText(row.HoldingPrice),
		"", "", "", "", "",
	}

	if s := row.Snapshot; s != nil {
		rec[4] = s.CurrentPrice.String()
		rec[5] = s.Low52Week.String()
		rec[6] = s.High52Week.String()
		rec[7] = s.AboveLowText()
		rec[8] = s.BelowHighText()
	}

	return rec
}

// WriteCSV writes the header and one record per row
func WriteCSV(w io.Writer, rows []contracts.EnrichedRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(Record(row)); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV
func ReadCSV(r io.Reader) ([]contracts.EnrichedRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read csv: missing header")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("read csv: unexpected column %q at %d (want %q)", header[i], i, col)
		}
	}

	rows := make([]contracts.EnrichedRow, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRecord(rec []string) (contracts.EnrichedRow, error) {
	count, err := strconv.Atoi(rec[2])
	if err != nil {
		return contracts.EnrichedRow{}, fmt.Errorf("investor count %q: %w", rec[2], err)
	}

	holding, err := parseNull(rec[3])
	if err != nil {
		return contracts.EnrichedRow{}, fmt.Errorf("holding price: %w", err)
	}

	row := contracts.EnrichedRow{
		ListingRow: contracts.ListingRow{
			Ticker:        rec[0],
			Company:       rec[1],
			InvestorCount: count,
			HoldingPrice:  holding,
		},
	}

	if rec[4] == "" {
		return row, nil
	}

	// 시장 데이터는 다섯 칸이 모두 있거나 모두 비어 있음
	values := make([]decimal.Decimal, 5)
	for i, cell := range rec[4:] {
		d, err := decimal.NewFromString(strings.TrimSuffix(cell, "%"))
		if err != nil {
			return contracts.EnrichedRow{}, fmt.Errorf("%s %q: %w", Columns[4+i], cell, err)
		}
		values[i] = d
	}

	row.Snapshot = &contracts.PriceSnapshot{
		CurrentPrice:     values[0],
		Low52Week:        values[1],
		High52Week:       values[2],
		PercentAboveLow:  values[3],
		PercentBelowHigh: values[4],
	}

	return row, nil
}

func nullText(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func parseNull(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
