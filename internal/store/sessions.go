// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Session is a persisted login session row. A row is meaningful only
// while now < ExpiresAt; an expired row is logically dead even when
// still physically present.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

// CreateSessionParams holds the fields for CreateSession.
type CreateSessionParams struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

// CreateSession inserts a session row.
func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		arg.ID, arg.UserID, arg.ExpiresAt)
	return conflictOn(err, "id")
}

// GetSessionByID fetches a session row by token. Expiry is not checked
// here; the authenticator compares against its caller-supplied clock.
func (q *Queries) GetSessionByID(ctx context.Context, id string) (Session, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at FROM sessions WHERE id = ?", id)

	var s Session
	err := row.Scan(&s.ID, &s.UserID, &s.ExpiresAt)
	return s, err
}

// DeleteSession removes a session row. Deleting a missing row is not an
// error.
func (q *Queries) DeleteSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	return err
}

// DeleteSessionsByUser removes every session owned by a user.
func (q *Queries) DeleteSessionsByUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// DeleteExpiredSessions removes rows whose expiry is at or before now
// and reports how many were deleted.
func (q *Queries) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountSessionsByUser returns the number of sessions a user owns.
func (q *Queries) CountSessionsByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE user_id = ?", userID).Scan(&n)
	return n, err
}
