// Package accounts implements registration and the three-field login check
// over a ports.UserStore.
package accounts

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
)

// Messages shown to the user. They are part of the UI contract.
const (
	MsgUsernameTaken      = "⚠️ Username already exists. Please use a different one."
	MsgRegistered         = "✅ Registration successful! You can now log in."
	MsgInvalidCredentials = "❌ Invalid credentials. Please try again."
	msgWelcomeFormat      = "✅ Welcome %s! Redirecting to AI Travel Planner..."
)

// WelcomeMessage is the login success text for username.
func WelcomeMessage(username string) string {
	return fmt.Sprintf(msgWelcomeFormat, username)
}

// Result is the outcome of a Register or Login attempt.
// A negative result (OK=false) is a normal answer, not an error.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Service guards the user table.
type Service struct {
	store  ports.UserStore
	mu     sync.Mutex // serialises load-check-append
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithHooks registers lifecycle callbacks for auth attempts.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// NewService creates an accounts service over store.
func NewService(store ports.UserStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register appends user unless the username is already present.
// Errors are reserved for storage failures (e.g. a malformed user file).
func (s *Service) Register(ctx context.Context, user domain.User) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.Username == user.Username {
			s.logger.Info("registration rejected", "username", user.Username, "reason", domain.ErrUsernameTaken)
			s.emit(ctx, domain.EventRegistration, user.Username, false)
			return Result{OK: false, Message: MsgUsernameTaken}, nil
		}
	}

	if err := s.store.Append(ctx, user); err != nil {
		return Result{}, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user registered", "username", user.Username)
	s.emit(ctx, domain.EventRegistration, user.Username, true)
	return Result{OK: true, Message: MsgRegistered}, nil
}

// Login succeeds only when one stored record matches all three fields.
func (s *Service) Login(ctx context.Context, user domain.User) (Result, error) {
	err := s.Verify(ctx, user)
	switch {
	case err == nil:
		s.logger.Info("login succeeded", "username", user.Username)
		s.emit(ctx, domain.EventLogin, user.Username, true)
		return Result{OK: true, Message: WelcomeMessage(user.Username)}, nil
	case errors.Is(err, domain.ErrInvalidCredentials):
		s.logger.Info("login failed", "username", user.Username)
		s.emit(ctx, domain.EventLogin, user.Username, false)
		return Result{OK: false, Message: MsgInvalidCredentials}, nil
	default:
		return Result{}, err
	}
}

// Verify returns domain.ErrInvalidCredentials when no record matches user.
func (s *Service) Verify(ctx context.Context, user domain.User) error {
	users, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		if u.Matches(user) {
			return nil
		}
	}
	return domain.ErrInvalidCredentials
}

// Find returns the record for username.
func (s *Service) Find(ctx context.Context, username string) (domain.User, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
}

// List returns all users in registration order.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

func (s *Service) emit(ctx context.Context, t domain.EventType, username string, ok bool) {
	if s.hooks.OnAuth == nil {
		return
	}
	s.hooks.OnAuth(ctx, &domain.AuthEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t},
		Username:  username,
		Success:   ok,
	})
}
