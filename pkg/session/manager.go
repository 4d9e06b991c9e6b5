package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed replica can hold a distributed lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks registers callbacks fired on logout.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Start creates and persists a fresh anonymous session with a random ID.
func (m *Manager) Start(ctx context.Context) (*domain.Session, error) {
	id := uuid.NewString()
	sess := domain.NewSession(id, m.now())
	if err := m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Save(ctx, id, sess)
	}); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	m.logger.Debug("session started", "session_id", id)
	return sess, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		return err
	})
	return sess, err
}

// LoadOrStart loads sessionID, or starts a new session when it is empty or unknown.
// The returned session's ID may therefore differ from sessionID.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return m.Start(ctx)
	}

	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		sess = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return m.Start(ctx)
	}
	return sess, nil
}

// Login marks the session as logged in for username.
func (m *Manager) Login(ctx context.Context, sessionID, username string) (*domain.Session, error) {
	return m.update(ctx, sessionID, func(s *domain.Session, now time.Time) {
		s.Login(username, now)
	})
}

// Logout resets the session to logged_in=false, username="".
func (m *Manager) Logout(ctx context.Context, sessionID string) (*domain.Session, error) {
	var previous string
	sess, err := m.update(ctx, sessionID, func(s *domain.Session, now time.Time) {
		previous = s.Username
		s.Logout(now)
	})
	if err != nil {
		return nil, err
	}
	if m.hooks.OnAuth != nil {
		m.hooks.OnAuth(ctx, &domain.AuthEvent{
			EventBase: domain.EventBase{Timestamp: m.now(), Type: domain.EventLogout},
			Username:  previous,
			Success:   true,
		})
	}
	return sess, nil
}

// Touch refreshes UpdatedAt so the session is not pruned as idle.
func (m *Manager) Touch(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.update(ctx, sessionID, func(s *domain.Session, now time.Time) {
		s.UpdatedAt = now
	})
}

// RequireLogin loads the session and fails with domain.ErrNotLoggedIn if it is anonymous.
func (m *Manager) RequireLogin(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := m.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrNotLoggedIn
		}
		return nil, err
	}
	if !sess.LoggedIn {
		return nil, domain.ErrNotLoggedIn
	}
	return sess, nil
}

func (m *Manager) update(ctx context.Context, sessionID string, mutate func(*domain.Session, time.Time)) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		mutate(sess, m.now())
		return m.store.Save(ctx, sessionID, sess)
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Prune deletes sessions idle for longer than maxIdle and returns how many were removed.
// Sessions that vanish mid-scan are ignored.
func (m *Manager) Prune(ctx context.Context, maxIdle time.Duration) (int, error) {
	ids, err := m.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	removed := 0
	for _, id := range ids {
		err := m.WithLock(ctx, id, func(ctx context.Context) error {
			sess, err := m.store.Load(ctx, id)
			if err != nil {
				return err
			}
			if sess.IdleSince(m.now()) <= maxIdle {
				return nil
			}
			if err := m.store.Delete(ctx, id); err != nil {
				return err
			}
			removed++
			return nil
		})
		if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return removed, fmt.Errorf("failed to prune session %s: %w", id, err)
		}
	}

	if removed > 0 {
		m.logger.Info("pruned idle sessions", "count", removed, "max_idle", maxIdle)
	}
	return removed, nil
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
