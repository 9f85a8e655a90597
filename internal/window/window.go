// Package window clamps a requested date interval to the available
// series range and extracts the windowed sub-series. Endpoints that
// fall on dates with no record (market holidays) snap forward to the
// next present date rather than failing.
package window

import (
	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
)

// maxSnapDays bounds the forward probe to ten years of calendar days.
const maxSnapDays = 3653

// Clamp adjusts startKey and endKey into the series' key range. Empty
// keys pass through unchanged; the caller has not yet established
// defaults. String comparison on day keys is monotonic, so clamping
// works without parsing. If start ends up past end, end is forced to
// start.
func Clamp(series domain.Series, startKey, endKey string) (string, string) {
	first, last := series.First(), series.Last()
	if first == nil || last == nil {
		return startKey, endKey
	}
	minKey, maxKey := datecode.ToKey(first.Date), datecode.ToKey(last.Date)

	if startKey != "" {
		startKey = clampKey(startKey, minKey, maxKey)
	}
	if endKey != "" {
		endKey = clampKey(endKey, minKey, maxKey)
	}
	if startKey != "" && endKey != "" && startKey > endKey {
		endKey = startKey
	}
	return startKey, endKey
}

func clampKey(key, minKey, maxKey string) string {
	if key < minKey {
		return minKey
	}
	if key > maxKey {
		return maxKey
	}
	return key
}

// SnapForward returns key if the series has a record on it, otherwise
// probes consecutive calendar days forward until a present key is
// found. An unparseable key, or no hit within the probe bound, returns
// the original key unchanged and the caller produces an empty window.
func SnapForward(series domain.Series, key string) string {
	present := keySet(series)
	if _, ok := present[key]; ok {
		return key
	}

	date, ok := datecode.FromKey(key)
	if !ok {
		return key
	}
	for i := 1; i <= maxSnapDays; i++ {
		probe := datecode.ToKey(date.AddDate(0, 0, i))
		if _, ok := present[probe]; ok {
			return probe
		}
	}
	return key
}

// Select resolves the requested interval against the series and
// returns the windowed sub-series plus the adjusted endpoint keys.
// Empty requested keys default to the series bounds.
func Select(series domain.Series, startKey, endKey string) (domain.Series, string, string) {
	first, last := series.First(), series.Last()
	if first == nil || last == nil {
		return nil, startKey, endKey
	}
	if startKey == "" {
		startKey = datecode.ToKey(first.Date)
	}
	if endKey == "" {
		endKey = datecode.ToKey(last.Date)
	}

	startKey, endKey = Clamp(series, startKey, endKey)
	startKey = SnapForward(series, startKey)
	endKey = SnapForward(series, endKey)

	var out domain.Series
	for _, rec := range series {
		key := datecode.ToKey(rec.Date)
		if key < startKey {
			continue
		}
		if key > endKey {
			break
		}
		out = append(out, rec)
	}
	return out, startKey, endKey
}

func keySet(series domain.Series) map[string]struct{} {
	set := make(map[string]struct{}, len(series))
	for _, rec := range series {
		set[datecode.ToKey(rec.Date)] = struct{}{}
	}
	return set
}
