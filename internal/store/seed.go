// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rumiland/crm/internal/auth"
	"github.com/rumiland/crm/internal/model"
)

// Default admin credentials created on first run. The login screen
// tells operators to change the password immediately.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	DefaultAdminFullName = "مدیر سیستم"
)

// Seed creates the default admin account when the users table is empty.
// Running it against a populated database is a no-op.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	q := New(db)

	n, err := q.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	u, err := q.CreateUser(ctx, CreateUserParams{
		Username:     DefaultAdminUsername,
		PasswordHash: hash,
		FullName:     DefaultAdminFullName,
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("seed: create admin: %w", err)
	}

	logger.Info("seeded default admin account",
		"username", u.Username,
		"user_id", u.ID)
	return nil
}
