package ingestion

import (
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/observability"
)

// ErrEmptySeries is returned when no usable rows survive parsing after
// both delimiter attempts. Downstream treats this as ingestion failure.
var ErrEmptySeries = errors.New("no usable rows in series input")

// dateColumns are tried in order when resolving a row's date.
var dateColumns = []string{"date", "datetime", "day"}

// DetectDelimiter inspects the first non-blank line and picks the
// delimiter by presence: tab, then semicolon, else comma.
func DetectDelimiter(raw string) rune {
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.ContainsRune(line, '\t') {
			return '\t'
		}
		if strings.ContainsRune(line, ';') {
			return ';'
		}
		return ','
	}
	return ','
}

// ParseSeries turns raw delimited text into a sorted, deduplicated
// series. It parses permissively with a comma first and retries once
// with the detected delimiter when that yields nothing usable.
func ParseSeries(raw []byte) (domain.Series, error) {
	text := string(raw)

	series, dropped := parseWithDelimiter(text, ',')
	if len(series) == 0 {
		if delim := DetectDelimiter(text); delim != ',' {
			series, dropped = parseWithDelimiter(text, delim)
		}
	}
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	observability.RecordRowsIngested(len(series), dropped)
	return series, nil
}

// parseWithDelimiter parses the table with one delimiter, dropping
// rows missing date, gold, or silver, or with silver == 0. Duplicate
// day keys collapse last-write-wins; the result is sorted ascending.
func parseWithDelimiter(text string, delim rune) (domain.Series, int) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := readNonBlankRow(r)
	if err != nil {
		return nil, 0
	}
	columns := canonicalColumns(header)

	dropped := 0
	byKey := make(map[string]*domain.PriceRecord)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed row is dropped, not reported.
			dropped++
			continue
		}

		rec := buildRecord(row, columns)
		if rec == nil {
			dropped++
			continue
		}
		byKey[datecode.ToKey(rec.Date)] = rec
	}

	series := make(domain.Series, 0, len(byKey))
	for _, rec := range byKey {
		series = append(series, rec)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series, dropped
}

// readNonBlankRow skips leading blank rows and returns the first row
// with content, used as the header.
func readNonBlankRow(r *csv.Reader) ([]string, error) {
	for {
		row, err := r.Read()
		if err != nil {
			return nil, err
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		return row, nil
	}
}

// canonicalColumns maps canonical column names to their index, so that
// header case, surrounding whitespace, and a leading BOM are tolerated
// in one place instead of at every lookup.
func canonicalColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[canonicalKey(name)] = i
	}
	return columns
}

func canonicalKey(name string) string {
	name = strings.TrimPrefix(name, "\uFEFF")
	return strings.ToLower(strings.TrimSpace(name))
}

// buildRecord assembles one price record from a raw row, or nil when
// any required field is missing or invalid.
func buildRecord(row []string, columns map[string]int) *domain.PriceRecord {
	date, ok := rowDate(row, columns)
	if !ok {
		return nil
	}
	gold, ok := rowNumber(row, columns, "gold")
	if !ok {
		return nil
	}
	silver, ok := rowNumber(row, columns, "silver")
	if !ok || silver == 0 {
		return nil
	}
	return domain.NewPriceRecord(date, gold, silver)
}

func rowDate(row []string, columns map[string]int) (time.Time, bool) {
	for _, col := range dateColumns {
		cell, present := rowCell(row, columns, col)
		if !present {
			continue
		}
		if d, parsed := datecode.ParseFlexible(cell); parsed {
			return d, true
		}
	}
	return time.Time{}, false
}

func rowNumber(row []string, columns map[string]int, col string) (float64, bool) {
	cell, present := rowCell(row, columns, col)
	if !present {
		return 0, false
	}
	return parseNumericCell(cell)
}

func rowCell(row []string, columns map[string]int, col string) (string, bool) {
	idx, present := columns[col]
	if !present || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}

// parseNumericCell strips everything except digits, '.', and '-'
// (currency symbols, thousands separators) before parsing. Non-finite
// results are rejected.
func parseNumericCell(cell string) (float64, bool) {
	var b strings.Builder
	for _, ch := range cell {
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' {
			b.WriteRune(ch)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
