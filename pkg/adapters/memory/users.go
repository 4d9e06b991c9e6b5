package memory

import (
	"context"
	"sync"

	"github.com/aretw0/tripplanner/pkg/domain"
)

// UserStore implements ports.UserStore in memory.
type UserStore struct {
	users []domain.User
	mu    sync.RWMutex
}

// NewUserStore creates an empty user table, optionally seeded.
func NewUserStore(seed ...domain.User) *UserStore {
	return &UserStore{users: append([]domain.User(nil), seed...)}
}

// Load returns a copy of the table.
func (s *UserStore) Load(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User{}, s.users...), nil
}

// Append adds user at the end of the table.
func (s *UserStore) Append(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
	return nil
}
