// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rumiland/crm/internal/auth"
	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/store"
	"github.com/rumiland/crm/internal/testutil"
)

func setupAuthenticator(t *testing.T) (*Authenticator, *store.Queries, *sql.DB) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	q := store.New(db)
	return NewAuthenticator(q, testutil.TestLogger(), DefaultLifetime), q, db
}

func createTestUser(t *testing.T, q *store.Queries, username string) model.User {
	t.Helper()

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		FullName:     "کاربر آزمایشی",
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	a, _, _ := setupAuthenticator(t)

	res, err := a.Authenticate(context.Background(), "", time.Now())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Status != StatusUnauthenticated {
		t.Errorf("Status = %v, want unauthenticated", res.Status)
	}
	if res.User != nil {
		t.Error("User must be nil for a failed authentication")
	}
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	a, _, _ := setupAuthenticator(t)

	res, err := a.Authenticate(context.Background(), "no-such-token", time.Now())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Status != StatusUnauthenticated {
		t.Errorf("Status = %v, want unauthenticated", res.Status)
	}
}

func TestAuthenticate_LiveSession(t *testing.T) {
	a, q, _ := setupAuthenticator(t)
	ctx := context.Background()
	u := createTestUser(t, q, "alice")

	now := time.Now().UTC()
	token, err := a.Create(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := a.Authenticate(ctx, token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Status != StatusAuthenticated {
		t.Fatalf("Status = %v, want authenticated", res.Status)
	}
	if res.User == nil || res.User.ID != u.ID {
		t.Fatalf("User = %+v, want id %d", res.User, u.ID)
	}
	if res.User.Username != "alice" {
		t.Errorf("Username = %q, want alice", res.User.Username)
	}
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	a, q, _ := setupAuthenticator(t)
	ctx := context.Background()
	u := createTestUser(t, q, "alice")

	now := time.Now().UTC()
	token, err := a.Create(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := a.Authenticate(ctx, token, now.Add(DefaultLifetime+time.Second))
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Status != StatusExpired {
		t.Fatalf("Status = %v, want expired", res.Status)
	}
	if res.User != nil {
		t.Error("expired session must not expose a user")
	}

	// Lazy cleanup removed the row, so the same token is now unknown,
	// not expired.
	res, err = a.Authenticate(ctx, token, now.Add(DefaultLifetime+time.Second))
	if err != nil {
		t.Fatalf("Authenticate after cleanup: %v", err)
	}
	if res.Status != StatusUnauthenticated {
		t.Errorf("second attempt Status = %v, want unauthenticated", res.Status)
	}
}

func TestAuthenticate_ExactExpiryBoundary(t *testing.T) {
	a, q, _ := setupAuthenticator(t)
	ctx := context.Background()
	u := createTestUser(t, q, "alice")

	now := time.Now().UTC().Truncate(time.Second)
	token, err := a.Create(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// now == expires_at counts as expired.
	res, err := a.Authenticate(ctx, token, now.Add(DefaultLifetime))
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Status != StatusExpired {
		t.Errorf("Status at exact deadline = %v, want expired", res.Status)
	}
}

func TestAuthenticate_OrphanedSession(t *testing.T) {
	a, q, _ := setupAuthenticator(t)
	ctx := context.Background()
	u := createTestUser(t, q, "alice")

	now := time.Now().UTC()
	token, err := a.Create(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Deleting the user cascades to sessions, so the token is gone.
	if err := q.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	res, err := a.Authenticate(ctx, token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Status != StatusUnauthenticated {
		t.Errorf("Status = %v, want unauthenticated", res.Status)
	}
}

func TestCreate_DistinctTokensPerLogin(t *testing.T) {
	a, q, _ := setupAuthenticator(t)
	ctx := context.Background()
	u := createTestUser(t, q, "alice")

	now := time.Now().UTC()
	t1, err := a.Create(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t2, err := a.Create(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if t1 == t2 {
		t.Fatal("two logins produced the same token")
	}

	// Both sessions are independently valid.
	for _, tok := range []string{t1, t2} {
		res, err := a.Authenticate(ctx, tok, now.Add(time.Minute))
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if res.Status != StatusAuthenticated {
			t.Errorf("token %s: Status = %v, want authenticated", tok, res.Status)
		}
	}
}

func TestDestroy(t *testing.T) {
	a, q, _ := setupAuthenticator(t)
	ctx := context.Background()
	u := createTestUser(t, q, "alice")

	now := time.Now().UTC()
	token, err := a.Create(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := a.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	res, err := a.Authenticate(ctx, token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Status != StatusUnauthenticated {
		t.Errorf("Status after destroy = %v, want unauthenticated", res.Status)
	}

	// Idempotent: destroying again, or destroying garbage, is fine.
	if err := a.Destroy(ctx, token); err != nil {
		t.Errorf("second Destroy: %v", err)
	}
	if err := a.Destroy(ctx, "never-existed"); err != nil {
		t.Errorf("Destroy of unknown token: %v", err)
	}
	if err := a.Destroy(ctx, ""); err != nil {
		t.Errorf("Destroy of empty token: %v", err)
	}
}

func TestDestroyAll(t *testing.T) {
	a, q, _ := setupAuthenticator(t)
	ctx := context.Background()
	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		if _, err := a.Create(ctx, alice.ID, now); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	bobToken, err := a.Create(ctx, bob.ID, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := a.DestroyAll(ctx, alice.ID); err != nil {
		t.Fatalf("DestroyAll: %v", err)
	}

	n, err := q.CountSessionsByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CountSessionsByUser: %v", err)
	}
	if n != 0 {
		t.Errorf("alice still has %d sessions", n)
	}

	// Bob's session is untouched.
	res, err := a.Authenticate(ctx, bobToken, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Status != StatusAuthenticated {
		t.Errorf("bob's Status = %v, want authenticated", res.Status)
	}
}

func TestPurgeExpired(t *testing.T) {
	a, q, _ := setupAuthenticator(t)
	ctx := context.Background()
	u := createTestUser(t, q, "alice")

	now := time.Now().UTC()

	// One live session, two dead ones.
	liveToken, err := a.Create(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 2; i++ {
		tok, err := NewToken()
		if err != nil {
			t.Fatalf("NewToken: %v", err)
		}
		err = q.CreateSession(ctx, store.CreateSessionParams{
			ID:        tok,
			UserID:    u.ID,
			ExpiresAt: now.Add(-time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	n, err := a.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d sessions, want 2", n)
	}

	res, err := a.Authenticate(ctx, liveToken, now)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Status != StatusAuthenticated {
		t.Errorf("live session Status = %v, want authenticated", res.Status)
	}
}

func TestNewAuthenticator_DefaultLifetime(t *testing.T) {
	a := NewAuthenticator(nil, testutil.TestLogger(), 0)
	if a.Lifetime() != DefaultLifetime {
		t.Errorf("Lifetime = %v, want %v", a.Lifetime(), DefaultLifetime)
	}

	a = NewAuthenticator(nil, testutil.TestLogger(), time.Hour)
	if a.Lifetime() != time.Hour {
		t.Errorf("Lifetime = %v, want 1h", a.Lifetime())
	}
}

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusUnauthenticated: "unauthenticated",
		StatusExpired:         "expired",
		StatusAuthenticated:   "authenticated",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
