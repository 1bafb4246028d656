package sqlite

import (
	"context"
	"testing"

	"goeha/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_AuthorizationFlow(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	ctx := context.Background()

	ids, err := repo.ListAuthorized(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	authorized, err := repo.IsAuthorized(ctx, 123)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.False(t, authorized)

	require.NoError(t, repo.Register(ctx, 123))
	require.NoError(t, repo.Register(ctx, 123))

	authorized, err = repo.IsAuthorized(ctx, 123)
	require.NoError(t, err)
	assert.False(t, authorized, "registered user")

	require.NoError(t, repo.Authorize(ctx, 123))
	require.NoError(t, repo.Authorize(ctx, 456))

	// registering again keeps the flag
	require.NoError(t, repo.Register(ctx, 123))
	require.NoError(t, repo.Register(ctx, 789))

	authorized, err = repo.IsAuthorized(ctx, 123)
	require.NoError(t, err)
	assert.True(t, authorized)

	ids, err = repo.ListAuthorized(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{123, 456}, ids)
}

func TestUserRepo_ClosedDatabase(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	require.NoError(t, db.Close())

	_, err := repo.IsAuthorized(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, repo.Register(context.Background(), 1))
}
