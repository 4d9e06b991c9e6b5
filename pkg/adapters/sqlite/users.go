// Package sqlite stores the user table in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aretw0/tripplanner/pkg/domain"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "tripplanner.db"

const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	"username" TEXT NOT NULL,
	"email" TEXT NOT NULL,
	"mobile" TEXT NOT NULL,
	"created_at" DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// UserStore implements ports.UserStore on top of database/sql.
// Rows come back in insertion order (by id). Username uniqueness is enforced
// by the accounts service, not by a constraint, so that both backends behave alike.
type UserStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*UserStore, error) {
	if path == "" {
		path = DefaultPath
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createUsersTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}
	return &UserStore{db: db}, nil
}

// Load returns every user ordered by insertion.
func (s *UserStore) Load(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, email, mobile FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Username, &u.Email, &u.Mobile); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

// Append inserts a user at the end of the table.
func (s *UserStore) Append(ctx context.Context, user domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, mobile) VALUES (?, ?, ?)`,
		user.Username, user.Email, user.Mobile,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *UserStore) Close() error {
	return s.db.Close()
}
