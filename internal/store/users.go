package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
)

// Users is the SQLite-backed account table.
type Users struct {
	DB *sql.DB
}

const userColumns = `id, name, email, password_hash, role, created_at, deleted_at`

// CreateUser creates a new user. A clash with an active user's email
// returns model.ErrDuplicateEmail.
func (s *Users) CreateUser(ctx context.Context, name, email, passwordHash, role string) (*model.User, error) {
	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		name, email, passwordHash, role, db.FormatTime(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return s.GetUser(ctx, id)
}

// GetUser returns a user by ID, or nil if there is none.
func (s *Users) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns the active user with the given email, or nil.
func (s *Users) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`, email,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns all non-deleted users.
func (s *Users) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUserRole changes the role of an active user.
func (s *Users) UpdateUserRole(ctx context.Context, id int64, role string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ? AND deleted_at IS NULL`,
		role, id,
	)
	if err != nil {
		return fmt.Errorf("updating user role: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user, freeing the email for reuse.
func (s *Users) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE users SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		db.FormatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func scanUser(row scanner) (*model.User, error) {
	var (
		u         model.User
		createdAt string
		deletedAt sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &createdAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if u.CreatedAt, err = db.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t, err := db.ParseTime(deletedAt.String)
		if err != nil {
			return nil, err
		}
		u.DeletedAt = &t
	}
	return &u, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
