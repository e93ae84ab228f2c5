// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/store"
)

// Status classifies the outcome of an authentication attempt. Failures
// that the visitor caused (no token, unknown token, expired token) are
// statuses; infrastructure failures are returned as errors instead.
type Status int

const (
	// StatusUnauthenticated means no usable session: missing token,
	// unknown token, or a session whose user no longer exists.
	StatusUnauthenticated Status = iota
	// StatusExpired means the token matched a session whose lifetime
	// has passed. Kept distinct so the login page can say "your
	// session expired" rather than a generic prompt.
	StatusExpired
	// StatusAuthenticated means the token resolved to a live session
	// and its user.
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusExpired:
		return "expired"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// AuthResult is the outcome of Authenticate. User is non-nil only when
// Status is StatusAuthenticated.
type AuthResult struct {
	Status Status
	User   *model.User
}

// Authenticator resolves session tokens to users. All expiry decisions
// compare the stored deadline against the caller-supplied clock, which
// keeps the logic deterministic under test.
type Authenticator struct {
	queries  *store.Queries
	logger   *slog.Logger
	lifetime time.Duration
}

// NewAuthenticator creates an Authenticator. A non-positive lifetime
// falls back to DefaultLifetime.
func NewAuthenticator(queries *store.Queries, logger *slog.Logger, lifetime time.Duration) *Authenticator {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Authenticator{queries: queries, logger: logger, lifetime: lifetime}
}

// Lifetime returns the configured session lifetime.
func (a *Authenticator) Lifetime() time.Duration { return a.lifetime }

// Authenticate resolves token to a user as of now.
//
// An empty or unknown token yields StatusUnauthenticated. A token whose
// session has expired yields StatusExpired and the dead row is deleted
// opportunistically; a failure of that cleanup is logged but does not
// change the verdict, since the row stays harmless either way. A
// session pointing at a deleted user yields StatusUnauthenticated and
// the orphaned row is removed. Database failures are returned as errors
// and never downgraded to a visitor-facing status.
func (a *Authenticator) Authenticate(ctx context.Context, token string, now time.Time) (AuthResult, error) {
	if token == "" {
		return AuthResult{Status: StatusUnauthenticated}, nil
	}

	sess, err := a.queries.GetSessionByID(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AuthResult{Status: StatusUnauthenticated}, nil
		}
		return AuthResult{}, fmt.Errorf("looking up session: %w", err)
	}

	if !now.Before(sess.ExpiresAt) {
		if err := a.queries.DeleteSession(ctx, sess.ID); err != nil {
			a.logger.Warn("failed to delete expired session", "error", err)
		}
		return AuthResult{Status: StatusExpired}, nil
	}

	user, err := a.queries.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// User deleted while the session row survived.
			if err := a.queries.DeleteSession(ctx, sess.ID); err != nil {
				a.logger.Warn("failed to delete orphaned session", "error", err)
			}
			return AuthResult{Status: StatusUnauthenticated}, nil
		}
		return AuthResult{}, fmt.Errorf("loading session user: %w", err)
	}

	return AuthResult{Status: StatusAuthenticated, User: &user}, nil
}

// Create starts a new session for a user as of now and returns the
// token to place in the cookie.
func (a *Authenticator) Create(ctx context.Context, userID int64, now time.Time) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}

	err = a.queries.CreateSession(ctx, store.CreateSessionParams{
		ID:        token,
		UserID:    userID,
		ExpiresAt: now.Add(a.lifetime),
	})
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return token, nil
}

// Destroy removes a session by token. Destroying a token that never
// existed, or one already removed, succeeds: logout is idempotent.
func (a *Authenticator) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.queries.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// DestroyAll removes every session a user owns. Used when an account is
// deleted so its sessions cannot linger.
func (a *Authenticator) DestroyAll(ctx context.Context, userID int64) error {
	if err := a.queries.DeleteSessionsByUser(ctx, userID); err != nil {
		return fmt.Errorf("destroying user sessions: %w", err)
	}
	return nil
}

// PurgeExpired deletes every session dead as of now and reports the
// count. The scheduler runs this so abandoned rows do not pile up
// behind the lazy per-request cleanup.
func (a *Authenticator) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := a.queries.DeleteExpiredSessions(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("purging expired sessions: %w", err)
	}
	return n, nil
}
