package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tripplanner/pkg/adapters/memory"
	"github.com/aretw0/tripplanner/pkg/adapters/redis"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.SessionStore
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	return s.SessionStore.Load(ctx, sessionID)
}

func TestManager_LoginLogout(t *testing.T) {
	mgr := session.NewManager(memory.NewSessionStore())
	ctx := context.Background()

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn)
	assert.NotEmpty(t, sess.ID)

	_, err = mgr.RequireLogin(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	sess, err = mgr.Login(ctx, sess.ID, "alice")
	require.NoError(t, err)
	assert.True(t, sess.LoggedIn)
	assert.Equal(t, "alice", sess.Username)

	got, err := mgr.RequireLogin(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	sess, err = mgr.Logout(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn)
	assert.Empty(t, sess.Username)
}

func TestManager_LoadOrStart(t *testing.T) {
	mgr := session.NewManager(memory.NewSessionStore())
	ctx := context.Background()

	fresh, err := mgr.LoadOrStart(ctx, "")
	require.NoError(t, err)

	again, err := mgr.LoadOrStart(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, again.ID)

	unknown, err := mgr.LoadOrStart(ctx, "forged-id")
	require.NoError(t, err)
	assert.NotEqual(t, "forged-id", unknown.ID)
}

func TestManager_UnknownSession(t *testing.T) {
	mgr := session.NewManager(memory.NewSessionStore())
	_, err := mgr.Login(context.Background(), "nope", "alice")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = mgr.RequireLogin(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestManager_ConcurrentUpdatesSerialised(t *testing.T) {
	store := &SlowStore{memory.NewSessionStore()}
	mgr := session.NewManager(store)
	ctx := context.Background()

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Login(ctx, sess.ID, "alice")
			assert.NoError(t, err)
			_, err = mgr.Touch(ctx, sess.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := mgr.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.LoggedIn)
}

func TestManager_Prune(t *testing.T) {
	now := time.Date(2025, 2, 11, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	mgr := session.NewManager(memory.NewSessionStore(), session.WithClock(clock))
	ctx := context.Background()

	stale, err := mgr.Start(ctx)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	fresh, err := mgr.Start(ctx)
	require.NoError(t, err)

	removed, err := mgr.Prune(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{fresh.ID}, ids)

	_, err = mgr.Load(ctx, stale.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_LogoutHook(t *testing.T) {
	var got *domain.AuthEvent
	mgr := session.NewManager(memory.NewSessionStore(), session.WithHooks(domain.LifecycleHooks{
		OnAuth: func(_ context.Context, e *domain.AuthEvent) { got = e },
	}))
	ctx := context.Background()

	sess, _ := mgr.Start(ctx)
	_, _ = mgr.Login(ctx, sess.ID, "bob")
	_, err := mgr.Logout(ctx, sess.ID)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, domain.EventLogout, got.Type)
	assert.Equal(t, "bob", got.Username)
}

func TestManager_DistributedLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	mgr := session.NewManager(store, session.WithLocker(redis.NewLocker(client, "tripplanner:")))
	ctx := context.Background()

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)
	_, err = mgr.Login(ctx, sess.ID, "alice")
	require.NoError(t, err)

	assert.False(t, mr.Exists("tripplanner:lock:"+sess.ID), "lock should be released after the update")

	loaded, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Username)
}
