package clickhouse

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/storage"
)

func testPoint(runID string, day int) *domain.TrajectoryPoint {
	return &domain.TrajectoryPoint{
		RunID:         runID,
		DateKey:       fmt.Sprintf("2020-01-%02d", day),
		Gold:          1550 + float64(day),
		Silver:        18,
		GSR:           (1550 + float64(day)) / 18,
		GoldValue:     10000,
		SilverValue:   10000,
		StrategyValue: 10000 + float64(day),
		HeldMetal:     domain.MetalGold,
		SwitchCount:   0,
	}
}

func TestTrajectoryStore_InsertBulkAndGetByRunID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTrajectoryStore(conn)

	require.NoError(t, store.InsertBulk(ctx, []*domain.TrajectoryPoint{
		testPoint("run-a", 3),
		testPoint("run-a", 2),
		testPoint("run-b", 2),
	}))

	points, err := store.GetByRunID(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2020-01-02", points[0].DateKey, "ordered by date key ASC")
	assert.Equal(t, "2020-01-03", points[1].DateKey)
	assert.Equal(t, domain.MetalGold, points[0].HeldMetal)
	assert.Equal(t, 10002.0, points[0].StrategyValue)
}

func TestTrajectoryStore_EmptyBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTrajectoryStore(conn)
	assert.NoError(t, store.InsertBulk(context.Background(), nil))
}

func TestTrajectoryStore_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTrajectoryStore(conn)
	err := store.InsertBulk(context.Background(), []*domain.TrajectoryPoint{
		testPoint("run-a", 2),
		testPoint("run-a", 2),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTrajectoryStore_DuplicateAgainstStored(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTrajectoryStore(conn)
	require.NoError(t, store.InsertBulk(ctx, []*domain.TrajectoryPoint{testPoint("run-a", 2)}))

	err := store.InsertBulk(ctx, []*domain.TrajectoryPoint{
		testPoint("run-a", 3),
		testPoint("run-a", 2),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTrajectoryStore_MissingRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	points, err := NewTrajectoryStore(conn).GetByRunID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestTrajectoryStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTrajectoryStore(conn)
	err := store.InsertBulk(context.Background(), []*domain.TrajectoryPoint{
		{RunID: "", DateKey: "2020-01-02"},
	})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
