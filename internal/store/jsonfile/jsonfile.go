// Package jsonfile persists both collections as a single JSON document,
// rewritten in full on every mutation. It is the default backend and mirrors
// the layout of a db.json produced by earlier versions of this service.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"pressgate/internal/accounts"
	"pressgate/internal/auth"
	"pressgate/internal/content"
)

// accountRecord is the on-disk shape; unlike accounts.Account it carries
// the password hash, which must never appear in API responses but has to
// be persisted.
type accountRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type document struct {
	Users   []accountRecord `json:"users"`
	Content []content.Item  `json:"content"`
}

type DB struct {
	path string

	mu  sync.Mutex
	doc document
}

// Open loads the document at path, creating an empty one if the file does
// not exist yet.
func Open(path string) (*DB, error) {
	db := &DB{path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		db.doc = document{Users: []accountRecord{}, Content: []content.Item{}}
		if err := db.save(); err != nil {
			return nil, err
		}
		return db, nil
	case err != nil:
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if err := json.Unmarshal(data, &db.doc); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	return db, nil
}

// save rewrites the whole document. Callers must hold mu. The write goes
// through a temp file and rename so a crash mid-write cannot truncate the
// dataset.
func (db *DB) save() error {
	data, err := json.MarshalIndent(&db.doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := db.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(db.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, db.path)
}

func (db *DB) Accounts() *AccountStore { return &AccountStore{db: db} }
func (db *DB) Content() *ItemStore    { return &ItemStore{db: db} }

type AccountStore struct {
	db *DB
}

func toAccount(r accountRecord) accounts.Account {
	return accounts.Account{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.Password,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *AccountStore) Insert(ctx context.Context, a *accounts.Account) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, r := range s.db.doc.Users {
		if r.Username == a.Username {
			return accounts.ErrDuplicate
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.Role == "" {
		a.Role = auth.RoleUser
	}
	s.db.doc.Users = append(s.db.doc.Users, accountRecord{
		ID:        a.ID,
		Username:  a.Username,
		Password:  a.PasswordHash,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	})
	return s.db.save()
}

func (s *AccountStore) FindByUsername(ctx context.Context, username string) (*accounts.Account, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, r := range s.db.doc.Users {
		if r.Username == username {
			a := toAccount(r)
			return &a, nil
		}
	}
	return nil, accounts.ErrNotFound
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, r := range s.db.doc.Users {
		if r.ID == id {
			a := toAccount(r)
			return &a, nil
		}
	}
	return nil, accounts.ErrNotFound
}

func (s *AccountStore) FindAll(ctx context.Context) ([]accounts.Account, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]accounts.Account, 0, len(s.db.doc.Users))
	for _, r := range s.db.doc.Users {
		out = append(out, toAccount(r))
	}
	return out, nil
}

func (s *AccountStore) Update(ctx context.Context, id string, p accounts.Patch) (*accounts.Account, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Users {
		r := &s.db.doc.Users[i]
		if r.ID != id {
			continue
		}
		if p.Username != nil && *p.Username != r.Username {
			for _, other := range s.db.doc.Users {
				if other.ID != id && other.Username == *p.Username {
					return nil, accounts.ErrDuplicate
				}
			}
			r.Username = *p.Username
		}
		if p.PasswordHash != nil {
			r.Password = *p.PasswordHash
		}
		if p.Role != nil {
			r.Role = *p.Role
		}
		if err := s.db.save(); err != nil {
			return nil, err
		}
		a := toAccount(*r)
		return &a, nil
	}
	return nil, accounts.ErrNotFound
}

func (s *AccountStore) Delete(ctx context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, r := range s.db.doc.Users {
		if r.ID == id {
			s.db.doc.Users = append(s.db.doc.Users[:i], s.db.doc.Users[i+1:]...)
			return s.db.save()
		}
	}
	return accounts.ErrNotFound
}

type ItemStore struct {
	db *DB
}

func (s *ItemStore) Insert(ctx context.Context, item *content.Item) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if item.Status == "" {
		item.Status = content.StatusDraft
	}
	s.db.doc.Content = append(s.db.doc.Content, *item)
	return s.db.save()
}

func (s *ItemStore) FindByID(ctx context.Context, id string) (*content.Item, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, it := range s.db.doc.Content {
		if it.ID == id {
			found := it
			return &found, nil
		}
	}
	return nil, content.ErrNotFound
}

func (s *ItemStore) FindAll(ctx context.Context) ([]content.Item, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]content.Item, len(s.db.doc.Content))
	copy(out, s.db.doc.Content)
	return out, nil
}

func (s *ItemStore) Update(ctx context.Context, id string, p content.Patch) (*content.Item, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Content {
		it := &s.db.doc.Content[i]
		if it.ID != id {
			continue
		}
		if p.Title != nil {
			it.Title = *p.Title
		}
		if p.Body != nil {
			it.Body = *p.Body
		}
		if p.Status != nil {
			it.Status = *p.Status
		}
		if err := s.db.save(); err != nil {
			return nil, err
		}
		found := *it
		return &found, nil
	}
	return nil, content.ErrNotFound
}

func (s *ItemStore) Delete(ctx context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, it := range s.db.doc.Content {
		if it.ID == id {
			s.db.doc.Content = append(s.db.doc.Content[:i], s.db.doc.Content[i+1:]...)
			return s.db.save()
		}
	}
	return content.ErrNotFound
}
