package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGormAdminUserRepository(t *testing.T) {
	identity.PasswordCost = bcrypt.MinCost
	ctx := context.Background()
	repo := NewGormAdminUserRepository(newTestDB(t))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	user, err := identity.NewAdminUser("Owner@Shop.Example", "Owner", "secret123")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByEmail(ctx, " OWNER@shop.example")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.VerifyPassword("secret123"))

	now := time.Now().UTC().Truncate(time.Second)
	found.RecordLoginFailure(now, 3, time.Minute)
	require.NoError(t, repo.Save(ctx, found))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.FailedAttempts)
	assert.False(t, reloaded.IsLocked(now))

	assert.True(t, reloaded.RecordLoginFailure(now, 2, time.Minute))
	require.NoError(t, repo.Save(ctx, reloaded))
	locked, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked(now))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
