// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/session"
	"github.com/rumiland/crm/internal/store"
	"github.com/rumiland/crm/internal/testutil"
)

func setupScheduler(t *testing.T) (*Scheduler, *store.Queries) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	q := store.New(db)
	a := session.NewAuthenticator(q, testutil.TestLogger(), session.DefaultLifetime)
	return New(q, a, testutil.TestLogger(), 30*24*time.Hour), q
}

func TestScheduler_StartStop(t *testing.T) {
	s, _ := setupScheduler(t)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("registered %d jobs, want 2", got)
	}
	s.Stop()
}

func TestScheduler_PurgeSessions(t *testing.T) {
	s, q := setupScheduler(t)
	ctx := context.Background()

	u, err := q.CreateUser(ctx, store.CreateUserParams{
		Username:     "alice",
		PasswordHash: "x",
		FullName:     "آلیس",
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err = q.CreateSession(ctx, store.CreateSessionParams{
		ID:        "dead-token",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	s.purgeSessions()

	n, err := q.CountSessionsByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("CountSessionsByUser: %v", err)
	}
	if n != 0 {
		t.Errorf("%d sessions survived purge", n)
	}
}

func TestScheduler_TrimEvents(t *testing.T) {
	s, q := setupScheduler(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, age := range []time.Duration{60 * 24 * time.Hour, time.Hour} {
		_, err := q.CreateEvent(ctx, store.CreateEventParams{
			Level:     model.EventLevelInfo,
			Category:  model.EventCategorySystem,
			Message:   "event",
			CreatedAt: now.Add(-age),
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	s.trimEvents()

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("%d events remain, want 1 (only the recent one)", len(events))
	}
}
