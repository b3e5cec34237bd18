package content

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("content item not found")

// Patch carries a partial update; nil fields are left untouched.
// CreatedAt is immutable and not patchable.
type Patch struct {
	Title  *string
	Body   *string
	Status *Status
}

// Store is the persistence boundary for content items. Insert assigns ID,
// CreatedAt and a draft status when unset.
type Store interface {
	Insert(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id string) (*Item, error)
	FindAll(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, id string, p Patch) (*Item, error)
	Delete(ctx context.Context, id string) error
}
