package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
)

func seriesEnding(t *testing.T, keys ...string) domain.Series {
	t.Helper()
	series := make(domain.Series, 0, len(keys))
	for _, key := range keys {
		date, ok := datecode.FromKey(key)
		require.True(t, ok)
		series = append(series, domain.NewPriceRecord(date, 1500, 18))
	}
	return series
}

func TestTopUp_Appends(t *testing.T) {
	series := seriesEnding(t, "2020-01-02", "2020-01-03")
	today := time.Date(2020, 1, 4, 15, 30, 0, 0, time.Local)
	quote := &Quote{XAU: 0.0005, XAG: 0.05}

	out, applied := TopUp(series, quote, today)
	require.True(t, applied)
	require.Len(t, out, 3)

	last := out.Last()
	assert.Equal(t, "2020-01-04", datecode.ToKey(last.Date))
	assert.Equal(t, 1/0.0005, last.Gold)
	assert.Equal(t, 1/0.05, last.Silver)
	assert.InDelta(t, (1/0.0005)/(1/0.05), last.GSR, 1e-9)

	// Input untouched.
	assert.Len(t, series, 2)
}

func TestTopUp_SkipsWhenCurrent(t *testing.T) {
	series := seriesEnding(t, "2020-01-03", "2020-01-04")
	today := time.Date(2020, 1, 4, 9, 0, 0, 0, time.Local)

	out, applied := TopUp(series, &Quote{XAU: 0.0005, XAG: 0.05}, today)
	assert.False(t, applied)
	assert.Len(t, out, 2)
}

func TestTopUp_SkipsDuplicateKey(t *testing.T) {
	// The last record is older than today but another record already
	// covers today's key.
	series := seriesEnding(t, "2020-01-04", "2020-01-03")
	today := time.Date(2020, 1, 4, 9, 0, 0, 0, time.Local)

	out, applied := TopUp(series, &Quote{XAU: 0.0005, XAG: 0.05}, today)
	assert.False(t, applied)
	assert.Len(t, out, 2)
}

func TestTopUp_SkipsBadQuote(t *testing.T) {
	series := seriesEnding(t, "2020-01-02")
	today := time.Date(2020, 1, 4, 0, 0, 0, 0, time.Local)

	for _, q := range []*Quote{nil, {XAU: 0, XAG: 0.05}, {XAU: 0.0005, XAG: -1}} {
		out, applied := TopUp(series, q, today)
		assert.False(t, applied)
		assert.Len(t, out, 1)
	}
}

func TestTopUp_SkipsEmptySeries(t *testing.T) {
	out, applied := TopUp(nil, &Quote{XAU: 0.0005, XAG: 0.05}, time.Now())
	assert.False(t, applied)
	assert.Nil(t, out)
}
