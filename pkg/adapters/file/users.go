package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/tripplanner/pkg/domain"
)

// DefaultUsersPath is the user table location when none is configured.
const DefaultUsersPath = "users.json"

// userTable is the on-disk document: {"users": [...]}.
type userTable struct {
	Users []domain.User `json:"users"`
}

// UserStore implements ports.UserStore on a single JSON document.
// Every Append rewrites the whole file.
type UserStore struct {
	Path string
	mu   sync.Mutex
}

// NewUserStore creates a store backed by path.
// If path is empty, it defaults to "users.json".
func NewUserStore(path string) *UserStore {
	if path == "" {
		path = DefaultUsersPath
	}
	return &UserStore{Path: path}
}

// Load reads the whole table. A missing file is an empty table.
func (s *UserStore) Load(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.read()
	if err != nil {
		return nil, err
	}
	return table.Users, nil
}

// Append adds user to the end of the table and rewrites the file.
func (s *UserStore) Append(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.read()
	if err != nil {
		return err
	}
	table.Users = append(table.Users, user)

	data, err := json.MarshalIndent(table, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}
	if err := writeAtomic(s.Path, data); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

func (s *UserStore) read() (*userTable, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return &userTable{Users: []domain.User{}}, nil
		}
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var table userTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", s.Path, err)
	}
	if table.Users == nil {
		table.Users = []domain.User{}
	}
	return &table, nil
}
