package repository

import (
	"context"
	"testing"
	"time"

	"casino/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRepository_InsertAndCurrent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no rounds yet", func(t *testing.T) {
		round, err := repo.Current(ctx)
		require.NoError(t, err)
		assert.Nil(t, round)
	})

	t.Run("insert assigns monotonic ids", func(t *testing.T) {
		first := testutil.CreateClosedTestRound(150)
		require.NoError(t, repo.Insert(ctx, first))
		assert.NotZero(t, first.ID)

		second := testutil.CreateTestRound(25)
		require.NoError(t, repo.Insert(ctx, second))
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("current returns the newest round", func(t *testing.T) {
		round, err := repo.Current(ctx)
		require.NoError(t, err)
		require.NotNil(t, round)
		assert.Equal(t, int64(25), round.CrashTenths)
		assert.True(t, round.BettingOpen(time.Now()))
	})

	t.Run("get by id round trips", func(t *testing.T) {
		current, err := repo.Current(ctx)
		require.NoError(t, err)

		fetched, err := repo.GetByID(ctx, current.ID)
		require.NoError(t, err)
		assert.Equal(t, current.ID, fetched.ID)
		assert.Equal(t, current.CrashTenths, fetched.CrashTenths)
	})
}

func TestRoundRepository_CloseBetting(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB)
	ctx := context.Background()

	round := testutil.CreateTestRound(42)
	require.NoError(t, repo.Insert(ctx, round))

	t.Run("close pulls the deadline forward", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, repo.CloseBetting(ctx, round.ID, now))

		stored, err := repo.GetByID(ctx, round.ID)
		require.NoError(t, err)
		assert.False(t, stored.BettingOpen(now.Add(time.Millisecond)))
	})

	t.Run("closing an already closed round fails", func(t *testing.T) {
		err := repo.CloseBetting(ctx, round.ID, time.Now())
		assert.Error(t, err)
	})
}
