// Package sqlite is the embedded-database backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"pressgate/internal/accounts"
	"pressgate/internal/auth"
	"pressgate/internal/content"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	username   TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	role       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS content (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'draft',
	created_at TIMESTAMP NOT NULL
);
`

func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal=wal&_fk=true", path))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Insert(ctx context.Context, a *accounts.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.Role == "" {
		a.Role = auth.RoleUser
	}
	const q = `INSERT INTO users (id, username, password, role, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, a.ID, a.Username, a.PasswordHash, a.Role, a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return accounts.ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *AccountStore) scanOne(row *sql.Row) (*accounts.Account, error) {
	a := &accounts.Account{}
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AccountStore) FindByUsername(ctx context.Context, username string) (*accounts.Account, error) {
	const q = `SELECT id, username, password, role, created_at FROM users WHERE username = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, q, username))
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	const q = `SELECT id, username, password, role, created_at FROM users WHERE id = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, q, id))
}

func (s *AccountStore) FindAll(ctx context.Context) ([]accounts.Account, error) {
	const q = `SELECT id, username, password, role, created_at FROM users ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []accounts.Account
	for rows.Next() {
		var a accounts.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *AccountStore) Update(ctx context.Context, id string, p accounts.Patch) (*accounts.Account, error) {
	sets := []string{}
	args := []interface{}{}
	if p.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *p.Username)
	}
	if p.PasswordHash != nil {
		sets = append(sets, "password = ?")
		args = append(args, *p.PasswordHash)
	}
	if p.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *p.Role)
	}
	if len(sets) > 0 {
		q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, q, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, accounts.ErrDuplicate
			}
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, accounts.ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *AccountStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) Insert(ctx context.Context, item *content.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if item.Status == "" {
		item.Status = content.StatusDraft
	}
	const q = `INSERT INTO content (id, title, body, status, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, item.ID, item.Title, item.Body, item.Status, item.CreatedAt)
	return err
}

func (s *ItemStore) FindByID(ctx context.Context, id string) (*content.Item, error) {
	const q = `SELECT id, title, body, status, created_at FROM content WHERE id = ?`
	item := &content.Item{}
	err := s.db.QueryRowContext(ctx, q, id).Scan(&item.ID, &item.Title, &item.Body, &item.Status, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemStore) FindAll(ctx context.Context) ([]content.Item, error) {
	const q = `SELECT id, title, body, status, created_at FROM content ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []content.Item
	for rows.Next() {
		var it content.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Body, &it.Status, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *ItemStore) Update(ctx context.Context, id string, p content.Patch) (*content.Item, error) {
	sets := []string{}
	args := []interface{}{}
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *p.Body)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if len(sets) > 0 {
		q := "UPDATE content SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, content.ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *ItemStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM content WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return content.ErrNotFound
	}
	return nil
}
