// Package account is the account directory: it registers people and checks
// their credentials. Raw passwords never leave this package; callers only
// see the resulting model.Identity.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/shramba/internal/model"
)

// Store persists accounts. GetUserByEmail only sees active accounts and
// returns nil without error when none has the email; GetUser also returns
// soft-deleted accounts, with DeletedAt set. CreateUser returns
// model.ErrDuplicateEmail when the email is taken.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUserRole(ctx context.Context, id int64, role string) error
	DeleteUser(ctx context.Context, id int64) error
}

// Directory registers and authenticates accounts.
type Directory struct {
	store Store
	cost  int
}

// NewDirectory returns a Directory backed by s.
func NewDirectory(s Store) *Directory {
	return &Directory{store: s, cost: bcrypt.DefaultCost}
}

// Register creates a regular account.
func (d *Directory) Register(ctx context.Context, name, email, password string) (model.Identity, error) {
	return d.Create(ctx, name, email, password, model.RoleUser)
}

// Create creates an account with the given role.
func (d *Directory) Create(ctx context.Context, name, email, password, role string) (model.Identity, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	var v model.Validation
	v.Check(name != "", "name")
	v.Check(strings.Contains(email, "@"), "email")
	v.Check(model.ValidatePassword(password) == nil, "password")
	v.Check(validRole(role), "role")
	if err := v.Err(); err != nil {
		return model.Identity{}, err
	}

	existing, err := d.store.GetUserByEmail(ctx, email)
	if err != nil {
		return model.Identity{}, model.Unavailable("checking email", err)
	}
	if existing != nil {
		return model.Identity{}, model.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return model.Identity{}, fmt.Errorf("hashing password: %w", err)
	}

	u, err := d.store.CreateUser(ctx, name, email, string(hash), role)
	if errors.Is(err, model.ErrDuplicateEmail) {
		// Lost a race with a concurrent registration.
		return model.Identity{}, err
	}
	if err != nil {
		return model.Identity{}, model.Unavailable("creating account", err)
	}
	return u.Identity(), nil
}

// Authenticate checks an email and password. It returns model.ErrNotFound
// for unknown or deleted accounts and model.ErrWrongCredential for a bad
// password.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (model.Identity, error) {
	u, err := d.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return model.Identity{}, model.Unavailable("looking up account", err)
	}
	if u == nil {
		return model.Identity{}, fmt.Errorf("account %q: %w", email, model.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return model.Identity{}, model.ErrWrongCredential
	}
	return u.Identity(), nil
}

// List returns the active accounts in creation order.
func (d *Directory) List(ctx context.Context) ([]model.User, error) {
	users, err := d.store.ListUsers(ctx)
	if err != nil {
		return nil, model.Unavailable("listing accounts", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// SetRole changes an active account's role and returns the updated account.
// The new role applies to tokens issued after the change.
func (d *Directory) SetRole(ctx context.Context, id int64, role string) (*model.User, error) {
	if !validRole(role) {
		return nil, &model.ValidationError{Fields: []string{"role"}}
	}
	if _, err := d.active(ctx, id); err != nil {
		return nil, err
	}
	if err := d.store.UpdateUserRole(ctx, id, role); err != nil {
		return nil, model.Unavailable("updating role", err)
	}
	return d.active(ctx, id)
}

// Delete soft-deletes an active account. It can no longer authenticate and
// its email becomes free for a new registration.
func (d *Directory) Delete(ctx context.Context, id int64) error {
	if _, err := d.active(ctx, id); err != nil {
		return err
	}
	if err := d.store.DeleteUser(ctx, id); err != nil {
		return model.Unavailable("deleting account", err)
	}
	return nil
}

func (d *Directory) active(ctx context.Context, id int64) (*model.User, error) {
	u, err := d.store.GetUser(ctx, id)
	if err != nil {
		return nil, model.Unavailable("looking up account", err)
	}
	if u == nil || u.DeletedAt != nil {
		return nil, fmt.Errorf("account %d: %w", id, model.ErrNotFound)
	}
	return u, nil
}

func validRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleManager || role == model.RoleUser
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
