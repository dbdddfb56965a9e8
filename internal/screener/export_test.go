package screener

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/superinvestor/internal/contracts"
)

func sampleRows() []contracts.EnrichedRow {
	return []contracts.EnrichedRow{
		{
			ListingRow: listing("MSFT", "Microsoft Corp.", 20, "310.5"),
			Snapshot: Snapshot(&contracts.MarketQuote{
				RegularMarketPrice: nd("415.26"),
				FiftyTwoWeekLow:    nd("309.45"),
				FiftyTwoWeekHigh:   nd("468.35"),
			}),
		},
		{
			ListingRow: listing("AAPL", "Apple, Inc.", 12, "150.00"),
			Snapshot: Snapshot(&contracts.MarketQuote{
				RegularMarketPrice: nd("180"),
				FiftyTwoWeekLow:    nd("120"),
				FiftyTwoWeekHigh:   nd("200"),
			}),
		},
		{ListingRow: listing("BRK.B", "Berkshire Hathaway", 7, "")},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Ticker,Company,# of Investors,Holding Price,Current Price,52W Low,52W High,% Above 52W Low,% Below 52W High", lines[0])
	assert.Equal(t, `AAPL,"Apple, Inc.",12,150,180,120,200,50.0%,10.0%`, lines[2])
	assert.Equal(t, "BRK.B,Berkshire Hathaway,7,,,,,,", lines[3])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Columns, ",")+"\n", buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	var first bytes.Buffer
	require.NoError(t, WriteCSV(&first, sampleRows()))

	rows, err := ReadCSV(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Apple, Inc.", rows[1].Company)
	assert.Equal(t, 12, rows[1].InvestorCount)
	assert.Equal(t, "50.0%", rows[1].Snapshot.AboveLowText())
	assert.False(t, rows[2].HoldingPrice.Valid)
	assert.Nil(t, rows[2].Snapshot)

	var second bytes.Buffer
	require.NoError(t, WriteCSV(&second, rows))
	assert.Equal(t, first.String(), second.String())
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "Symbol,Company,# of Investors,Holding Price,Current Price,52W Low,52W High,% Above 52W Low,% Below 52W High\n"},
		{"short record", strings.Join(Columns, ",") + "\nAAPL,Apple\n"},
		{"bad count", strings.Join(Columns, ",") + "\nAAPL,Apple,many,,,,,,\n"},
		{"bad price", strings.Join(Columns, ",") + "\nAAPL,Apple,3,,abc,1,2,3%,4%\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
