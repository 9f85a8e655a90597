package domain

import "time"

// Metal identifies which metal a position is held in.
type Metal string

// Metal constants.
const (
	MetalGold   Metal = "GOLD"
	MetalSilver Metal = "SILVER"
)

// Other returns the opposite metal.
func (m Metal) Other() Metal {
	if m == MetalGold {
		return MetalSilver
	}
	return MetalGold
}

// Valid reports whether m is a known metal.
func (m Metal) Valid() bool {
	return m == MetalGold || m == MetalSilver
}

// PriceRecord is one day of the gold/silver series.
// GSR is always recomputed from Gold/Silver at construction, never
// carried independently.
type PriceRecord struct {
	Date   time.Time // local midnight
	Gold   float64   // USD per troy ounce
	Silver float64   // USD per troy ounce
	GSR    float64   // Gold / Silver
}

// NewPriceRecord builds a record with GSR derived from the prices.
func NewPriceRecord(date time.Time, gold, silver float64) *PriceRecord {
	return &PriceRecord{
		Date:   date,
		Gold:   gold,
		Silver: silver,
		GSR:    gold / silver,
	}
}

// Series is an ordered sequence of price records, strictly ascending
// by date with at most one record per calendar day. It is produced
// wholesale by ingestion and replaced, never mutated, afterwards.
type Series []*PriceRecord

// First returns the earliest record, or nil for an empty series.
func (s Series) First() *PriceRecord {
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

// Last returns the latest record, or nil for an empty series.
func (s Series) Last() *PriceRecord {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}
