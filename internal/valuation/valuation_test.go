package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metal-ratio-lab/internal/domain"
)

func record(day int, gold, silver float64) *domain.PriceRecord {
	return domain.NewPriceRecord(time.Date(2020, 1, day, 0, 0, 0, 0, time.Local), gold, silver)
}

func TestValue_FirstRecordIdentity(t *testing.T) {
	windowed := domain.Series{record(2, 1550, 18), record(3, 1600, 19)}

	valued := Value(windowed, 10000)
	require.Len(t, valued, 2)

	// Both positions are worth exactly the starting amount at the
	// first record, by construction.
	assert.InDelta(t, 10000, valued[0].GoldValue, 1e-9)
	assert.InDelta(t, 10000, valued[0].SilverValue, 1e-9)
}

func TestValue_RepricesFixedUnits(t *testing.T) {
	windowed := domain.Series{record(2, 1500, 15), record(3, 1650, 12)}

	valued := Value(windowed, 3000)
	require.Len(t, valued, 2)

	// 2 oz of gold, 200 oz of silver.
	assert.InDelta(t, 2*1650, valued[1].GoldValue, 1e-9)
	assert.InDelta(t, 200*12.0, valued[1].SilverValue, 1e-9)
}

func TestValue_NonPositiveAmount(t *testing.T) {
	windowed := domain.Series{record(2, 1500, 15), record(3, 1650, 12)}

	for _, amount := range []float64{0, -100} {
		valued := Value(windowed, amount)
		require.Len(t, valued, 2)
		for _, v := range valued {
			assert.Zero(t, v.GoldValue)
			assert.Zero(t, v.SilverValue)
		}
	}
}

func TestValue_NonPositiveFirstPrice(t *testing.T) {
	windowed := domain.Series{record(2, 0, 15), record(3, 1650, 12)}

	valued := Value(windowed, 1000)
	require.Len(t, valued, 2)
	assert.Zero(t, valued[1].GoldValue, "zero first price must not produce infinities")
	assert.NotZero(t, valued[1].SilverValue)
}

func TestValue_EmptyWindow(t *testing.T) {
	valued := Value(nil, 1000)
	assert.Empty(t, valued)
}

func TestValue_PreservesPriceFields(t *testing.T) {
	windowed := domain.Series{record(2, 1500, 15)}

	valued := Value(windowed, 1000)
	require.Len(t, valued, 1)
	assert.Equal(t, 1500.0, valued[0].Gold)
	assert.Equal(t, 15.0, valued[0].Silver)
	assert.InDelta(t, 100.0, valued[0].GSR, 1e-9)
}
