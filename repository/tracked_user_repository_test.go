package repository

import (
	"context"
	"testing"

	"ticketsplus/models"
	"ticketsplus/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackedUserRepository_Add(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTrackedUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedGuild(t, testDB.DB, 100)
	testutil.SeedGuild(t, testDB.DB, 200)

	t.Run("registers a new ticket bot", func(t *testing.T) {
		added, err := repo.Add(ctx, 100, 508391840525975553)
		require.NoError(t, err)
		assert.True(t, added)

		tracked, err := repo.IsTracked(ctx, 100, 508391840525975553)
		require.NoError(t, err)
		assert.True(t, tracked)
	})

	t.Run("duplicate registration is a no-op", func(t *testing.T) {
		added, err := repo.Add(ctx, 100, 508391840525975553)
		require.NoError(t, err)
		assert.False(t, added)

		users, err := repo.List(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, []int64{508391840525975553}, users)
	})

	t.Run("same user in different guilds", func(t *testing.T) {
		added, err := repo.Add(ctx, 200, 508391840525975553)
		require.NoError(t, err)
		assert.True(t, added)
	})
}

func TestTrackedUserRepository_Remove(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTrackedUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedGuild(t, testDB.DB, 100)

	t.Run("unregisters a ticket bot", func(t *testing.T) {
		_, err := repo.Add(ctx, 100, 42)
		require.NoError(t, err)

		require.NoError(t, repo.Remove(ctx, 100, 42))

		tracked, err := repo.IsTracked(ctx, 100, 42)
		require.NoError(t, err)
		assert.False(t, tracked)
	})

	t.Run("absent user", func(t *testing.T) {
		err := repo.Remove(ctx, 100, 999)
		assert.ErrorIs(t, err, models.ErrUserNotTracked)
	})
}

func TestTrackedUserRepository_List(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTrackedUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedGuild(t, testDB.DB, 100)
	testutil.SeedGuild(t, testDB.DB, 200)

	t.Run("empty list for a fresh guild", func(t *testing.T) {
		users, err := repo.List(ctx, 100)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("returns users sorted by ID", func(t *testing.T) {
		for _, userID := range []int64{3, 1, 2} {
			_, err := repo.Add(ctx, 100, userID)
			require.NoError(t, err)
		}

		users, err := repo.List(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, users)
	})

	t.Run("list is scoped to the guild", func(t *testing.T) {
		_, err := repo.Add(ctx, 200, 77)
		require.NoError(t, err)

		users, err := repo.List(ctx, 100)
		require.NoError(t, err)
		assert.NotContains(t, users, int64(77))
	})
}
