// Package postgres is the networked-database backend.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pressgate/internal/accounts"
	"pressgate/internal/auth"
	"pressgate/internal/content"
)

func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies sql/schema.sql. The schema is idempotent
// (CREATE TABLE IF NOT EXISTS), so this runs on every boot.
func RunMigrations(ctx context.Context, db *sql.DB, basePath string) error {
	path := filepath.Join(basePath, "schema.sql")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// 23505 is unique_violation.
func isUniqueViolation(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == "23505"
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
	const q = `INSERT INTO users (id, username, password, role, created_at) VALUES ($1, $2, $3, $4, $5)`
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
	const q = `SELECT id, username, password, role, created_at FROM users WHERE username = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, q, username))
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	const q = `SELECT id, username, password, role, created_at FROM users WHERE id = $1`
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
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if p.Username != nil {
		sets = append(sets, "username = "+arg(*p.Username))
	}
	if p.PasswordHash != nil {
		sets = append(sets, "password = "+arg(*p.PasswordHash))
	}
	if p.Role != nil {
		sets = append(sets, "role = "+arg(*p.Role))
	}
	if len(sets) > 0 {
		q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = " + arg(id)
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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
	const q = `INSERT INTO content (id, title, body, status, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := s.db.ExecContext(ctx, q, item.ID, item.Title, item.Body, item.Status, item.CreatedAt)
	return err
}

func (s *ItemStore) FindByID(ctx context.Context, id string) (*content.Item, error) {
	const q = `SELECT id, title, body, status, created_at FROM content WHERE id = $1`
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
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if p.Title != nil {
		sets = append(sets, "title = "+arg(*p.Title))
	}
	if p.Body != nil {
		sets = append(sets, "body = "+arg(*p.Body))
	}
	if p.Status != nil {
		sets = append(sets, "status = "+arg(*p.Status))
	}
	if len(sets) > 0 {
		q := "UPDATE content SET " + strings.Join(sets, ", ") + " WHERE id = " + arg(id)
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM content WHERE id = $1`, id)
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
