// Tests use testcontainers-go to spin up a PostgreSQL container.
package store

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"telegram-lottery-bot/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestStore creates a PostgreSQL container, migrates the schema and
// returns a ready Store. Skips the test if Docker is not available.
func setupTestStore(t *testing.T) (*Store, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	s := New(pool)
	require.NoError(t, s.Migrate(ctx))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return s, cleanup
}

func TestStore_LoadEmpty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	records, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	want := map[int64]*model.LedgerRecord{
		1: {
			UserID:      1,
			DisplayName: "alice",
			Balance:     123456,
			Bet:         model.Tally{Won: 10, Lost: 5, AllInWon: 1, AllInLost: 2},
			Slot:        model.Tally{Won: 3, Lost: 7},
			LastClaimAt: 1700000000,
			Streak:      14,
		},
		2: {UserID: 2, Balance: 42},
	}

	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[1], got[1])
	assert.Equal(t, want[2], got[2])
}

func TestStore_SaveUpserts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, map[int64]*model.LedgerRecord{
		1: {UserID: 1, Balance: 100},
	}))
	require.NoError(t, s.Save(ctx, map[int64]*model.LedgerRecord{
		1: {UserID: 1, Balance: 999, Streak: 2},
	}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(999), got[1].Balance)
	assert.Equal(t, 2, got[1].Streak)
}

func TestStore_SaveEmptySnapshot(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, s.Save(context.Background(), nil))
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}
