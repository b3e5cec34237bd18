// Package seed applies the first-run bootstrap: one admin account and, when
// the content collection is empty, a couple of sample items. Running it again
// is a no-op, so it executes unconditionally at boot.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"log/slog"

	"gopkg.in/yaml.v3"

	"pressgate/internal/accounts"
	"pressgate/internal/auth"
	"pressgate/internal/content"
)

type File struct {
	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
	Content []struct {
		Title  string         `yaml:"title"`
		Body   string         `yaml:"body"`
		Status content.Status `yaml:"status"`
	} `yaml:"content"`
}

// Defaults mirrors the sample dataset shipped with the original service.
func Defaults() File {
	var f File
	f.Admin.Username = "admin"
	f.Admin.Password = "admin123"
	f.Content = []struct {
		Title  string         `yaml:"title"`
		Body   string         `yaml:"body"`
		Status content.Status `yaml:"status"`
	}{
		{Title: "Welcome", Body: "First published content", Status: content.StatusPublished},
		{Title: "Draft sample", Body: "Only admins can see", Status: content.StatusDraft},
	}
	return f
}

// Load reads a yaml seed file; a missing path falls back to Defaults.
func Load(path string) (File, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return File{}, err
	}
	f := Defaults()
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, nil
}

func Apply(ctx context.Context, f File, accountStore accounts.Store, itemStore content.Store, logger *slog.Logger) error {
	if f.Admin.Username != "" && f.Admin.Password != "" {
		_, err := accountStore.FindByUsername(ctx, f.Admin.Username)
		switch {
		case errors.Is(err, accounts.ErrNotFound):
			hash, err := auth.HashPassword(f.Admin.Password)
			if err != nil {
				return err
			}
			a := &accounts.Account{
				Username:     f.Admin.Username,
				PasswordHash: hash,
				Role:         auth.RoleAdmin,
			}
			if err := accountStore.Insert(ctx, a); err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			logger.Info("seeded admin account", "username", f.Admin.Username)
		case err != nil:
			return err
		}
	}

	existing, err := itemStore.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range f.Content {
		if c.Title == "" {
			continue
		}
		item := &content.Item{Title: c.Title, Body: c.Body, Status: c.Status}
		if err := itemStore.Insert(ctx, item); err != nil {
			return fmt.Errorf("seed content: %w", err)
		}
	}
	if len(f.Content) > 0 {
		logger.Info("seeded sample content", "items", len(f.Content))
	}
	return nil
}
