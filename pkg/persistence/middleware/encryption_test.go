package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"
	"time"

	"github.com/aretw0/tripplanner/pkg/adapters/memory"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/persistence/middleware"
	"github.com/aretw0/tripplanner/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secure(t *testing.T, next ports.SessionStore, cfg middleware.EncryptionConfig) ports.SessionStore {
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(next)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, secure(t, memory.NewSessionStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := NewMockStore()
	store := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	ctx := context.Background()
	now := time.Date(2025, 2, 11, 9, 0, 0, 0, time.UTC)
	original := domain.NewSession("s1", now)
	original.Login("alice", now)

	require.NoError(t, store.Save(ctx, "s1", original))

	stored, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, stored.Username)
	assert.False(t, stored.LoggedIn)
	assert.NotEmpty(t, stored.Sealed)
	assert.Equal(t, now, stored.UpdatedAt)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, loaded.LoggedIn)
	assert.Equal(t, "alice", loaded.Username)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	sess := domain.NewSession("rot", time.Now())
	sess.Login("bob", time.Now())
	require.NoError(t, oldStore.Save(ctx, "rot", sess))

	newStore := secure(t, underlying, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	loaded, err := newStore.Load(ctx, "rot")
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.Username)

	require.NoError(t, newStore.Save(ctx, "rot", loaded))
	_, err = oldStore.Load(ctx, "rot")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_PlaintextRejected(t *testing.T) {
	underlying := NewMockStore()
	require.NoError(t, underlying.Save(context.Background(), "plain", domain.NewSession("plain", time.Now())))

	store := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := store.Load(context.Background(), "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.Error(t, err)
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey("not base64!")
	assert.Error(t, err)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}
