package jsonfile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressgate/internal/accounts"
	"pressgate/internal/auth"
	"pressgate/internal/content"
)

func tempDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return db
}

func TestAccountInsertAssignsDefaults(t *testing.T) {
	ctx := context.Background()
	store := tempDB(t).Accounts()

	a := &accounts.Account{Username: "alice", PasswordHash: "digest"}
	require.NoError(t, store.Insert(ctx, a))
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, auth.RoleUser, a.Role)
}

func TestAccountDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := tempDB(t).Accounts()

	require.NoError(t, store.Insert(ctx, &accounts.Account{Username: "alice", PasswordHash: "x"}))
	err := store.Insert(ctx, &accounts.Account{Username: "alice", PasswordHash: "y"})
	assert.ErrorIs(t, err, accounts.ErrDuplicate)
}

func TestAccountFindUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := tempDB(t).Accounts()

	a := &accounts.Account{Username: "alice", PasswordHash: "x", Role: auth.RoleAdmin}
	require.NoError(t, store.Insert(ctx, a))

	byName, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byName.ID)

	byID, err := store.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	newName := "alice2"
	role := auth.RoleUser
	updated, err := store.Update(ctx, a.ID, accounts.Patch{Username: &newName, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, auth.RoleUser, updated.Role)
	// untouched fields survive a partial update
	assert.Equal(t, "x", updated.PasswordHash)

	_, err = store.FindByUsername(ctx, "alice")
	assert.ErrorIs(t, err, accounts.ErrNotFound)

	require.NoError(t, store.Delete(ctx, a.ID))
	assert.ErrorIs(t, store.Delete(ctx, a.ID), accounts.ErrNotFound)
	_, err = store.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, accounts.ErrNotFound)
}

func TestAccountUpdateToTakenUsername(t *testing.T) {
	ctx := context.Background()
	store := tempDB(t).Accounts()

	require.NoError(t, store.Insert(ctx, &accounts.Account{Username: "alice", PasswordHash: "x"}))
	b := &accounts.Account{Username: "bob", PasswordHash: "y"}
	require.NoError(t, store.Insert(ctx, b))

	taken := "alice"
	_, err := store.Update(ctx, b.ID, accounts.Patch{Username: &taken})
	assert.ErrorIs(t, err, accounts.ErrDuplicate)
}

func TestUpdateMissingAccount(t *testing.T) {
	ctx := context.Background()
	store := tempDB(t).Accounts()
	name := "ghost"
	_, err := store.Update(ctx, "no-such-id", accounts.Patch{Username: &name})
	assert.ErrorIs(t, err, accounts.ErrNotFound)
}

func TestContentCRUD(t *testing.T) {
	ctx := context.Background()
	store := tempDB(t).Content()

	item := &content.Item{Title: "Welcome", Body: "hello"}
	require.NoError(t, store.Insert(ctx, item))
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, content.StatusDraft, item.Status)

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	status := content.StatusPublished
	updated, err := store.Update(ctx, item.ID, content.Patch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, content.StatusPublished, updated.Status)
	assert.Equal(t, "Welcome", updated.Title)
	assert.Equal(t, item.CreatedAt.Unix(), updated.CreatedAt.Unix())

	require.NoError(t, store.Delete(ctx, item.ID))
	assert.ErrorIs(t, store.Delete(ctx, item.ID), content.ErrNotFound)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	db, err := Open(path)
	require.NoError(t, err)
	a := &accounts.Account{Username: "alice", PasswordHash: "digest", Role: auth.RoleAdmin}
	require.NoError(t, db.Accounts().Insert(ctx, a))
	require.NoError(t, db.Content().Insert(ctx, &content.Item{Title: "Welcome"}))

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.Accounts().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "digest", got.PasswordHash)
	assert.Equal(t, auth.RoleAdmin, got.Role)

	items, err := reopened.Content().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Welcome", items[0].Title)
}
