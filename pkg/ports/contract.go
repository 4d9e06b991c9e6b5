package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunUserStoreContract verifies that an empty UserStore behaves as the user table.
// The store passed in must hold no users.
func RunUserStoreContract(t *testing.T, store UserStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("EmptyTable", func(t *testing.T) {
		users, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	alice := domain.User{Username: "alice", Email: "alice@example.com", Mobile: "111"}
	bob := domain.User{Username: "bob", Email: "bob@example.com", Mobile: "222"}

	t.Run("AppendKeepsInsertionOrder", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, alice))
		require.NoError(t, store.Append(ctx, bob))

		users, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.User{alice, bob}, users)
	})

	t.Run("LoadReturnsIsolatedCopy", func(t *testing.T) {
		users, err := store.Load(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, users)
		users[0].Email = "mutated@example.com"

		again, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, alice.Email, again[0].Email)
	})

	t.Run("UnicodeFieldsRoundTrip", func(t *testing.T) {
		u := domain.User{Username: "zoë", Email: "zoë@example.com", Mobile: "+91 98765 43210"}
		require.NoError(t, store.Append(ctx, u))

		users, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, u, users[len(users)-1])
	})
}

// RunSessionStoreContract verifies the Save/Load/Delete/List semantics of a SessionStore.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 2, 11, 10, 0, 0, 0, time.UTC)

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		s := domain.NewSession("s-1", now)
		s.Login("alice", now.Add(time.Second))
		require.NoError(t, store.Save(ctx, "s-1", s))

		loaded, err := store.Load(ctx, "s-1")
		require.NoError(t, err)
		assert.True(t, loaded.LoggedIn)
		assert.Equal(t, "alice", loaded.Username)
		assert.True(t, loaded.UpdatedAt.Equal(s.UpdatedAt))
	})

	t.Run("Overwrite", func(t *testing.T) {
		s, err := store.Load(ctx, "s-1")
		require.NoError(t, err)
		s.Logout(now.Add(time.Minute))
		require.NoError(t, store.Save(ctx, "s-1", s))

		loaded, err := store.Load(ctx, "s-1")
		require.NoError(t, err)
		assert.False(t, loaded.LoggedIn)
		assert.Empty(t, loaded.Username)
	})

	t.Run("List", func(t *testing.T) {
		for i := 2; i <= 3; i++ {
			id := fmt.Sprintf("s-%d", i)
			require.NoError(t, store.Save(ctx, id, domain.NewSession(id, now)))
		}
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"s-1", "s-2", "s-3"}, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "s-2"))
		_, err := store.Load(ctx, "s-2")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		// Deleting twice is not an error.
		assert.NoError(t, store.Delete(ctx, "s-2"))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"s-1", "s-3"}, ids)
	})
}
