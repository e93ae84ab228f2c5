// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rumiland/crm/internal/auth"
	"github.com/rumiland/crm/internal/handler"
	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/store"
)

// runCreateAdmin handles the create-admin command: it creates an admin
// account, replacing any existing user with the same username. Useful
// for recovering a locked-out installation.
func runCreateAdmin(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: create-admin <username> <password> [full name]")
	}

	username := args[0]
	password := args[1]
	fullName := "مدیر سیستم"
	if len(args) > 2 {
		fullName = args[2]
	}

	if len(password) < handler.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", handler.MinPasswordLength)
	}

	_, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	ctx := context.Background()
	queries := store.New(db)

	// Replace, not update: simpler, and any stale sessions die with
	// the old user row.
	if err := queries.DeleteUserByUsername(ctx, username); err != nil {
		return fmt.Errorf("removing existing user: %w", err)
	}

	user, err := queries.CreateUser(ctx, store.CreateUserParams{
		Username:     username,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	fmt.Printf("admin account ready: %s (id %d)\n", user.Username, user.ID)
	return nil
}
