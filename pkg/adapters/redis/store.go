package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/tripplanner/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "tripplanner:session:"

// Hash fields of a stored session.
const (
	fieldID        = "id"
	fieldLoggedIn  = "logged_in"
	fieldUsername  = "username"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
	fieldSealed    = "sealed"
)

// Store implements ports.SessionStore using Redis.
//
// Each session is a hash under prefix+id. A sorted set at prefix+"index"
// tracks every session scored by its last activity, so List returns the
// least recently used sessions first. With a TTL, each Save re-arms the key
// expiry: a session touched on every request stays alive, an idle one
// disappears after TTL.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the idle expiration for sessions. Every Save refreshes it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying connection so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save writes the session hash, re-arms its TTL and bumps its activity score.
func (s *Store) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	key := s.key(sessionID)

	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.HSet(ctx, key, encodeSession(session))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		} else {
			pipe.Persist(ctx, key)
		}
		pipe.ZAdd(ctx, s.indexKey(), backend.Z{
			Score:  float64(session.UpdatedAt.Unix()),
			Member: sessionID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the session from Redis.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	session, err := decodeSession(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return session, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.key(sessionID))
		pipe.ZRem(ctx, s.indexKey(), sessionID)
		return nil
	})
	return err
}

// List returns live sessions, least recently active first. Index entries
// whose hash has expired are removed on the way.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	pipe := s.client.Pipeline()
	exists := make([]*backend.IntCmd, len(ids))
	for i, id := range ids {
		exists[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check sessions: %w", err)
	}

	live := make([]string, 0, len(ids))
	var stale []interface{}
	for i, id := range ids {
		if exists[i].Val() > 0 {
			live = append(live, id)
		} else {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
		}
	}
	return live, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func encodeSession(session *domain.Session) map[string]interface{} {
	return map[string]interface{}{
		fieldID:        session.ID,
		fieldLoggedIn:  strconv.FormatBool(session.LoggedIn),
		fieldUsername:  session.Username,
		fieldCreatedAt: session.CreatedAt.Format(time.RFC3339Nano),
		fieldUpdatedAt: session.UpdatedAt.Format(time.RFC3339Nano),
		fieldSealed:    session.Sealed,
	}
}

func decodeSession(fields map[string]string) (*domain.Session, error) {
	loggedIn, err := strconv.ParseBool(fields[fieldLoggedIn])
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fieldLoggedIn, err)
	}
	createdAt, err := parseTime(fields, fieldCreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(fields, fieldUpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		ID:        fields[fieldID],
		LoggedIn:  loggedIn,
		Username:  fields[fieldUsername],
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Sealed:    fields[fieldSealed],
	}, nil
}

func parseTime(fields map[string]string, name string) (time.Time, error) {
	raw, ok := fields[name]
	if !ok {
		return time.Time{}, errors.New("missing field " + name)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", name, err)
	}
	return t, nil
}
