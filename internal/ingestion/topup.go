package ingestion

import (
	"sort"
	"time"

	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
)

// TopUp appends a record for today derived from the live quote when
// the series' last date is strictly before today. The record is only
// appended when no existing record shares today's day key; the result
// is re-sorted. The input series is never mutated.
//
// Returns the (possibly new) series and whether a record was appended.
func TopUp(series domain.Series, q *Quote, today time.Time) (domain.Series, bool) {
	last := series.Last()
	if last == nil {
		return series, false
	}

	today = datecode.Truncate(today)
	if !last.Date.Before(today) {
		return series, false
	}
	if q == nil || q.XAU <= 0 || q.XAG <= 0 {
		return series, false
	}

	todayKey := datecode.ToKey(today)
	for _, rec := range series {
		if datecode.ToKey(rec.Date) == todayKey {
			return series, false
		}
	}

	out := make(domain.Series, len(series), len(series)+1)
	copy(out, series)
	out = append(out, domain.NewPriceRecord(today, 1/q.XAU, 1/q.XAG))
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, true
}
