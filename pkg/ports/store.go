package ports

import (
	"context"

	"github.com/aretw0/tripplanner/pkg/domain"
)

// UserStore persists registered users in insertion order.
// A store with no backing data yet behaves as an empty table.
type UserStore interface {
	// Load returns every user, oldest first.
	Load(ctx context.Context) ([]domain.User, error)

	// Append adds a user at the end of the table and persists it before returning.
	// Uniqueness is enforced by the caller.
	Append(ctx context.Context, user domain.User) error
}

// SessionStore defines the interface for persisting login sessions.
type SessionStore interface {
	// Save persists the session for a given session ID.
	Save(ctx context.Context, sessionID string, session *domain.Session) error

	// Load retrieves the session for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
