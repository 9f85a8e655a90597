package clickhouse

import (
	"context"
	"fmt"

	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/storage"
)

// TrajectoryStore implements storage.TrajectoryStore using ClickHouse.
// MergeTree does not enforce uniqueness at insert time, so duplicates
// are rejected by explicit checks before the batch is sent.
type TrajectoryStore struct {
	conn *Conn
}

// NewTrajectoryStore creates a new TrajectoryStore.
func NewTrajectoryStore(conn *Conn) *TrajectoryStore {
	return &TrajectoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TrajectoryStore = (*TrajectoryStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (run_id, date_key).
func (s *TrajectoryStore) InsertBulk(ctx context.Context, points []*domain.TrajectoryPoint) error {
	if len(points) == 0 {
		return nil
	}

	type key struct {
		runID   string
		dateKey string
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.RunID == "" || p.DateKey == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.RunID, p.DateKey}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing rows.
	for _, p := range points {
		exists, err := s.exists(ctx, p.RunID, p.DateKey)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO run_trajectories (
			run_id, date_key, gold, silver, gsr,
			gold_value, silver_value, strategy_value,
			held_metal, switch_count
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.RunID, p.DateKey, p.Gold, p.Silver, p.GSR,
			p.GoldValue, p.SilverValue, p.StrategyValue,
			string(p.HeldMetal), uint32(p.SwitchCount),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByRunID retrieves all points for a run, ordered by date key ASC.
func (s *TrajectoryStore) GetByRunID(ctx context.Context, runID string) ([]*domain.TrajectoryPoint, error) {
	query := `
		SELECT run_id, date_key, gold, silver, gsr,
			gold_value, silver_value, strategy_value,
			held_metal, switch_count
		FROM run_trajectories
		WHERE run_id = ?
		ORDER BY date_key ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	var points []*domain.TrajectoryPoint
	for rows.Next() {
		var (
			p           domain.TrajectoryPoint
			heldMetal   string
			switchCount uint32
		)
		err := rows.Scan(
			&p.RunID, &p.DateKey, &p.Gold, &p.Silver, &p.GSR,
			&p.GoldValue, &p.SilverValue, &p.StrategyValue,
			&heldMetal, &switchCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trajectory row: %w", err)
		}
		p.HeldMetal = domain.Metal(heldMetal)
		p.SwitchCount = int(switchCount)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trajectory rows: %w", err)
	}
	return points, nil
}

// exists checks if a point with the given key exists.
func (s *TrajectoryStore) exists(ctx context.Context, runID, dateKey string) (bool, error) {
	query := `SELECT count(*) FROM run_trajectories WHERE run_id = ? AND date_key = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, runID, dateKey).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
