package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/storage"
)

// SeriesStore implements storage.SeriesStore using PostgreSQL. Records
// are keyed by day key; the series is replaced wholesale inside one
// transaction so readers never observe a partial swap.
type SeriesStore struct {
	pool *Pool
}

// NewSeriesStore creates a new SeriesStore.
func NewSeriesStore(pool *Pool) *SeriesStore {
	return &SeriesStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SeriesStore = (*SeriesStore)(nil)

// Replace atomically swaps the stored series for recs.
func (s *SeriesStore) Replace(ctx context.Context, recs []*domain.PriceRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM price_series`); err != nil {
		return fmt.Errorf("clear price series: %w", err)
	}

	query := `
		INSERT INTO price_series (date_key, gold, silver, gsr)
		VALUES ($1, $2, $3, $4)
	`
	for _, rec := range recs {
		_, err := tx.Exec(ctx, query,
			datecode.ToKey(rec.Date),
			rec.Gold,
			rec.Silver,
			rec.GSR,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert price record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves the full series ordered by date ASC.
func (s *SeriesStore) GetAll(ctx context.Context) ([]*domain.PriceRecord, error) {
	query := `
		SELECT date_key, gold, silver
		FROM price_series
		ORDER BY date_key ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get price series: %w", err)
	}
	defer rows.Close()

	return scanPriceRecords(rows)
}

// GetByKeyRange retrieves records with day keys in [startKey, endKey].
func (s *SeriesStore) GetByKeyRange(ctx context.Context, startKey, endKey string) ([]*domain.PriceRecord, error) {
	query := `
		SELECT date_key, gold, silver
		FROM price_series
		WHERE date_key >= $1 AND date_key <= $2
		ORDER BY date_key ASC
	`

	rows, err := s.pool.Query(ctx, query, startKey, endKey)
	if err != nil {
		return nil, fmt.Errorf("get price series by key range: %w", err)
	}
	defer rows.Close()

	return scanPriceRecords(rows)
}

// scanPriceRecords scans rows into price records. GSR is recomputed
// from the prices on read rather than trusted from storage.
func scanPriceRecords(rows pgx.Rows) ([]*domain.PriceRecord, error) {
	var recs []*domain.PriceRecord

	for rows.Next() {
		var (
			dateKey      string
			gold, silver float64
		)
		if err := rows.Scan(&dateKey, &gold, &silver); err != nil {
			return nil, fmt.Errorf("scan price record row: %w", err)
		}

		date, ok := datecode.FromKey(dateKey)
		if !ok {
			return nil, fmt.Errorf("decode date key %q", dateKey)
		}
		recs = append(recs, domain.NewPriceRecord(date, gold, silver))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price record rows: %w", err)
	}
	return recs, nil
}
