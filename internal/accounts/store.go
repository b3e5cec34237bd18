package accounts

import (
	"context"
	"errors"

	"pressgate/internal/auth"
)

var (
	ErrNotFound  = errors.New("account not found")
	ErrDuplicate = errors.New("username already taken")
)

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Username     *string
	PasswordHash *string
	Role         *auth.Role
}

// Store is the persistence boundary for accounts. Insert assigns ID and
// CreatedAt when unset and fails with ErrDuplicate instead of inserting a
// second account with the same username; the check and the insert are atomic
// within a single backend.
type Store interface {
	Insert(ctx context.Context, a *Account) error
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	FindAll(ctx context.Context) ([]Account, error)
	Update(ctx context.Context, id string, p Patch) (*Account, error)
	Delete(ctx context.Context, id string) error
}
