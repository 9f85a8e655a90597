package ingestion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metal-ratio-lab/internal/datecode"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want rune
	}{
		{"tab wins", "date\tgold;silver,x\n", '\t'},
		{"semicolon beats comma", "date;gold,silver\n", ';'},
		{"comma default", "date,gold,silver\n", ','},
		{"no delimiter at all", "justoneword\n", ','},
		{"skips blank lines", "\n\n\ndate;gold;silver\n", ';'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.raw))
		})
	}
}

func TestParseSeries_Comma(t *testing.T) {
	raw := []byte("date,gold,silver\n2/1/2020,1550.5,18.1\n3/1/2020,1560,18.0\n")

	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "2020-01-02", datecode.ToKey(series[0].Date))
	assert.Equal(t, 1550.5, series[0].Gold)
	assert.Equal(t, 18.1, series[0].Silver)
	assert.InDelta(t, 1550.5/18.1, series[0].GSR, 1e-9)
}

func TestParseSeries_SemicolonRetry(t *testing.T) {
	// The permissive comma pass yields nothing; the detected delimiter
	// pass must recover the rows.
	raw := []byte("date;gold;silver\n2/1/2020;1550;18\n")

	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 1550.0, series[0].Gold)
}

func TestParseSeries_Tab(t *testing.T) {
	raw := []byte("date\tgold\tsilver\n2/1/2020\t1550\t18\n")

	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 1)
}

func TestParseSeries_HeaderVariance(t *testing.T) {
	// BOM, case, and whitespace on header names are all tolerated.
	raw := []byte("\uFEFFDate, GOLD ,Silver\n2/1/2020,1550,18\n")

	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 1)
}

func TestParseSeries_DateColumnFallbacks(t *testing.T) {
	raw := []byte("datetime,gold,silver\n2020-01-02,1550,18\n")
	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 1)

	raw = []byte("day,gold,silver\n2020-01-02,1550,18\n")
	series, err = ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 1)
}

func TestParseSeries_CurrencySymbolsAndSeparators(t *testing.T) {
	raw := []byte("date,gold,silver\n2/1/2020,\"$1,550.50\",$18.10\n")

	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 1550.50, series[0].Gold)
	assert.Equal(t, 18.10, series[0].Silver)
}

func TestParseSeries_DropsBadRows(t *testing.T) {
	raw := []byte("date,gold,silver\n" +
		"2/1/2020,1550,18\n" + // good
		"notadate,1550,18\n" + // bad date
		"3/1/2020,,18\n" + // missing gold
		"4/1/2020,1560,\n" + // missing silver
		"5/1/2020,1570,0\n" + // zero silver
		"6/1/2020,1580,18.2\n") // good

	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "2020-01-02", datecode.ToKey(series[0].Date))
	assert.Equal(t, "2020-01-06", datecode.ToKey(series[1].Date))
}

func TestParseSeries_DuplicateDatesLastWins(t *testing.T) {
	raw := []byte("date,gold,silver\n2/1/2020,1550,18\n2/1/2020,1555,18.5\n")

	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 1555.0, series[0].Gold)
}

func TestParseSeries_SortsAscending(t *testing.T) {
	raw := []byte("date,gold,silver\n5/1/2020,1570,18\n2/1/2020,1550,18\n3/1/2020,1560,18\n")

	series, err := ParseSeries(raw)
	require.NoError(t, err)
	require.Len(t, series, 3)
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Date.Before(series[i].Date))
	}
}

func TestParseSeries_EmptyAndNonTabular(t *testing.T) {
	_, err := ParseSeries([]byte(""))
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = ParseSeries([]byte("<!DOCTYPE html><html><body>Not Found</body></html>"))
	assert.ErrorIs(t, err, ErrEmptySeries)

	// Header only, no data rows.
	_, err = ParseSeries([]byte("date,gold,silver\n"))
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestParseNumericCell(t *testing.T) {
	tests := []struct {
		cell string
		want float64
		ok   bool
	}{
		{"1550.5", 1550.5, true},
		{"$1,550.50", 1550.50, true},
		{"-3.2", -3.2, true},
		{" 18 oz ", 18, true},
		{"", 0, false},
		{"n/a", math.NaN(), false},
		{"--", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumericCell(tt.cell)
		assert.Equal(t, tt.ok, ok, "cell %q", tt.cell)
		if tt.ok {
			assert.Equal(t, tt.want, got, "cell %q", tt.cell)
		}
	}
}
