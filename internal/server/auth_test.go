package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateOrRegister(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	a, err := authenticateOrRegister(ctx, store, "alice", "pw")
	require.NoError(t, err)
	assert.False(t, a.IsStaff)

	again, err := authenticateOrRegister(ctx, store, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)

	_, err = authenticateOrRegister(ctx, store, "alice", "wrong")
	require.ErrorIs(t, err, errBadCredentials)

	_, err = authenticate(ctx, store, "bob", "pw")
	require.ErrorIs(t, err, errBadCredentials)
}

func TestAuthenticateOrRegisterRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	for _, name := range []string{"", " alice", "a/b", "latest"} {
		_, err := authenticateOrRegister(ctx, store, name, "pw")
		assert.ErrorIs(t, err, errBadCredentials, "username %q", name)
	}
	_, err := authenticateOrRegister(ctx, store, "alice", "")
	assert.ErrorIs(t, err, errBadCredentials, "empty password")
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	logger := discardLogger()

	require.NoError(t, SeedAdmin(ctx, logger, store, "", ""))
	staff, err := store.HasStaff(ctx)
	require.NoError(t, err)
	assert.False(t, staff, "no staff without credentials")

	require.NoError(t, SeedAdmin(ctx, logger, store, "editor", "secret"))
	a, err := authenticate(ctx, store, "editor", "secret")
	require.NoError(t, err)
	assert.True(t, a.IsStaff)

	// A second run with different credentials is a no-op.
	require.NoError(t, SeedAdmin(ctx, logger, store, "other", "pw"))
	_, err = store.AuthorByUsername(ctx, "other")
	require.ErrorIs(t, err, ErrNotFound)
}
