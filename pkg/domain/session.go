package domain

import "time"

// Session holds the login flag for one visitor.
type Session struct {
	ID        string    `json:"id"`
	LoggedIn  bool      `json:"logged_in"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed holds the encrypted session when it went through an encrypting store.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a logged-out session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Login marks the session as authenticated for username.
func (s *Session) Login(username string, now time.Time) {
	s.LoggedIn = true
	s.Username = username
	s.UpdatedAt = now
}

// Logout resets the session to its anonymous state.
func (s *Session) Logout(now time.Time) {
	s.LoggedIn = false
	s.Username = ""
	s.UpdatedAt = now
}

// Snapshot returns a copy that can be mutated without affecting the original.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// IdleSince reports how long the session has been untouched at now.
func (s *Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.UpdatedAt)
}
