package repository

import (
	"context"
	"testing"

	"casino/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_RecordBet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatsRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unknown user has no stats", func(t *testing.T) {
		stats, err := repo.GetUser(ctx, 123456)
		require.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("first bet creates the row", func(t *testing.T) {
		err := repo.RecordBet(ctx, 123456, 1_000, 2_000, 0)
		require.NoError(t, err)

		stats, err := repo.GetUser(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, int64(1_000), stats.TotalBet)
		assert.Equal(t, int64(2_000), stats.TotalWon)
		assert.Equal(t, int64(0), stats.TotalLost)
	})

	t.Run("later bets accumulate", func(t *testing.T) {
		err := repo.RecordBet(ctx, 123456, 500, 0, 500)
		require.NoError(t, err)

		stats, err := repo.GetUser(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, int64(1_500), stats.TotalBet)
		assert.Equal(t, int64(2_000), stats.TotalWon)
		assert.Equal(t, int64(500), stats.TotalLost)
		assert.Equal(t, int64(1_500), stats.NetProfit())
	})

	t.Run("users are isolated", func(t *testing.T) {
		err := repo.RecordBet(ctx, 789012, 300, 0, 300)
		require.NoError(t, err)

		stats, err := repo.GetUser(ctx, 789012)
		require.NoError(t, err)
		assert.Equal(t, int64(300), stats.TotalBet)
	})
}

func TestStatsRepository_GlobalStats(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatsRepository(testDB.DB)
	ctx := context.Background()

	t.Run("global counter starts at zero", func(t *testing.T) {
		stats, err := repo.GetGlobal(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.TotalBet)
	})

	t.Run("global counter accumulates across users", func(t *testing.T) {
		require.NoError(t, repo.AddGlobalBet(ctx, 1_000))
		require.NoError(t, repo.AddGlobalBet(ctx, 2_500))

		stats, err := repo.GetGlobal(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3_500), stats.TotalBet)
	})
}
