// Package user defines the acting user record and its store.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("user not found")

// User is the identity every domain operation is performed on behalf of.
type User struct {
	ID        string
	Name      string
	IsAdmin   bool
	CreatedAt time.Time
}

// Is reports whether u is the user with the given id.
func (u User) Is(id string) bool {
	return u.ID != "" && u.ID == id
}

// Store persists users.
type Store struct {
	db *sql.DB
}

// NewStore creates a user store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add inserts a user. An empty ID is replaced with a fresh UUID.
func (s *Store) Add(ctx context.Context, u *User) error {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return errors.New("user name is required")
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, is_admin, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.IsAdmin, now.UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert user %q: %w", u.Name, err)
	}
	u.CreatedAt = now
	return nil
}

// Get returns the user with the given id.
func (s *Store) Get(ctx context.Context, id string) (*User, error) {
	return s.scanOne(ctx, `SELECT id, name, is_admin, created_at FROM users WHERE id = ?`, id)
}

// GetByName returns the user with the given name.
func (s *Store) GetByName(ctx context.Context, name string) (*User, error) {
	return s.scanOne(ctx, `SELECT id, name, is_admin, created_at FROM users WHERE name = ?`, name)
}

// List returns all users ordered by name.
func (s *Store) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, is_admin, created_at FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %v: %w", arg, err)
	}
	return u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	var (
		u       User
		created int64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.IsAdmin, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	return &u, nil
}
