// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/rumiland/crm/internal/auth"
	"github.com/rumiland/crm/internal/model"
)

func TestUserList_AdminOnly(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin", "admin123", model.RoleAdmin)
	regular := app.createUser(t, "user1", "password1", model.RoleUser)

	adminRec := get(t, app, RouteUsers, app.login(t, admin.ID))
	if adminRec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", adminRec.Code)
	}
	if !strings.Contains(adminRec.Body.String(), "user1") {
		t.Error("user list missing user1")
	}

	userRec := get(t, app, RouteUsers, app.login(t, regular.ID))
	if userRec.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", userRec.Code)
	}
}

func TestUserAdd(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin", "admin123", model.RoleAdmin)
	cookie := app.login(t, admin.ID)

	rec := postForm(t, app, RouteUsersAdd, url.Values{
		"username":  {"maryam"},
		"password":  {"s3cret-pass"},
		"full_name": {"مریم احمدی"},
		"role":      {model.RoleUser},
	}, cookie)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rec.Code, rec.Body.String())
	}

	user, err := app.queries.GetUserByUsername(context.Background(), "maryam")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("role = %q", user.Role)
	}
	// Stored as a verifiable argon2id hash, not plaintext.
	if !strings.HasPrefix(user.PasswordHash, "$argon2id$") {
		t.Errorf("password hash format: %q", user.PasswordHash)
	}
	if ok, err := auth.CheckPassword("s3cret-pass", user.PasswordHash); err != nil || !ok {
		t.Error("stored hash does not verify the password")
	}
}

func TestUserAdd_DuplicateUsername(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin", "admin123", model.RoleAdmin)
	cookie := app.login(t, admin.ID)

	form := url.Values{
		"username":  {"maryam"},
		"password":  {"s3cret-pass"},
		"full_name": {"مریم احمدی"},
		"role":      {model.RoleUser},
	}
	if rec := postForm(t, app, RouteUsersAdd, form, cookie); rec.Code != http.StatusSeeOther {
		t.Fatalf("first insert: status = %d", rec.Code)
	}

	rec := postForm(t, app, RouteUsersAdd, form, cookie)

	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate: status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "این نام کاربری قبلاً ثبت شده است") {
		t.Error("duplicate username message missing")
	}
}

func TestUserAdd_Validation(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin", "admin123", model.RoleAdmin)
	cookie := app.login(t, admin.ID)

	rec := postForm(t, app, RouteUsersAdd, url.Values{
		"username":  {"x"},
		"password":  {"12345"},
		"full_name": {"کسی"},
		"role":      {"superuser"},
	}, cookie)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "رمز عبور باید حداقل") {
		t.Error("short password message missing")
	}
	if !strings.Contains(body, "نقش انتخاب‌شده معتبر نیست") {
		t.Error("invalid role message missing")
	}
}

func TestUserDelete(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin", "admin123", model.RoleAdmin)
	target := app.createUser(t, "user1", "password1", model.RoleUser)
	cookie := app.login(t, admin.ID)

	rec := postForm(t, app, fmt.Sprintf("/users/delete/%d", target.ID), url.Values{}, cookie)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	if _, err := app.queries.GetUserByUsername(context.Background(), "user1"); err == nil {
		t.Error("user survived delete")
	}
}

func TestUserDelete_SelfGuard(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "admin", "admin123", model.RoleAdmin)
	cookie := app.login(t, admin.ID)

	rec := postForm(t, app, fmt.Sprintf("/users/delete/%d", admin.ID), url.Values{}, cookie)

	// Refused with a flash, not executed.
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	if _, err := app.queries.GetUserByUsername(context.Background(), "admin"); err != nil {
		t.Errorf("admin account deleted: %v", err)
	}
}

func TestUserRoutes_ForbidRegularUser(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "admin", "admin123", model.RoleAdmin)
	regular := app.createUser(t, "user1", "password1", model.RoleUser)
	cookie := app.login(t, regular.ID)

	rec := postForm(t, app, RouteUsersAdd, url.Values{
		"username":  {"evil"},
		"password":  {"password"},
		"full_name": {"نفوذی"},
		"role":      {model.RoleAdmin},
	}, cookie)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if _, err := app.queries.GetUserByUsername(context.Background(), "evil"); err == nil {
		t.Error("non-admin managed to create a user")
	}
}
