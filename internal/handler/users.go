// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rumiland/crm/internal/auth"
	"github.com/rumiland/crm/internal/i18n"
	"github.com/rumiland/crm/internal/middleware"
	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/render"
	"github.com/rumiland/crm/internal/store"
)

// MinPasswordLength is the minimum accepted password length for new
// accounts.
const MinPasswordLength = 6

// UserHandler handles the admin-only user administration pages.
// Route-level admin gating is done by middleware.RequireAdmin; the
// handlers still re-check so a wiring mistake fails closed.
type UserHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	errors   errorRenderer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *sql.DB, renderer *render.Renderer) *UserHandler {
	return &UserHandler{
		queries:  store.New(db),
		renderer: renderer,
		errors:   errorRenderer{renderer: renderer},
	}
}

// List renders the user list.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		h.errors.internal(w, r)
		return
	}

	h.renderPage(w, r, "pages/users", "مدیریت کاربران", users, nil)
}

// AddForm renders the add-user form.
func (h *UserHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	h.renderPage(w, r, "pages/user_add", "افزودن کاربر", nil, nil)
}

// Add handles the add-user form submission. A duplicate username
// surfaces as a Persian validation message, not an error page.
func (h *UserHandler) Add(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, RouteUsersAdd) {
		return
	}

	lang := middleware.GetLang(r)
	var errs []string

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	fullName := strings.TrimSpace(r.PostFormValue("full_name"))
	role := r.PostFormValue("role")

	if username == "" {
		errs = append(errs, "نام کاربری الزامی است")
	}
	if fullName == "" {
		errs = append(errs, "نام و نام خانوادگی الزامی است")
	}
	if len(password) < MinPasswordLength {
		errs = append(errs, i18n.T(lang, "user.password_short"))
	}
	if !model.ValidRole(role) {
		errs = append(errs, i18n.T(lang, "user.role_invalid"))
	}

	if len(errs) > 0 {
		h.renderPage(w, r, "pages/user_add", "افزودن کاربر", nil, errs)
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		h.errors.internal(w, r)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     username,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if store.IsConflict(err) {
			h.renderPage(w, r, "pages/user_add", "افزودن کاربر", nil,
				[]string{i18n.T(lang, "user.username_taken")})
			return
		}
		slog.Error("failed to create user", "error", err)
		h.errors.internal(w, r)
		return
	}

	logEvent(r.Context(), h.queries, r, model.EventLevelInfo, model.EventCategoryUser,
		"user created: "+user.Username, admin.ID)
	flashSuccess(w, r, redirectUsers, i18n.T(lang, "user.created"))
}

// Delete removes a user account. Admins cannot delete themselves.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	id, idOK := parseIDParam(r)
	if !idOK {
		h.errors.notFound(w, r)
		return
	}

	lang := middleware.GetLang(r)

	if err := auth.CheckSelfDelete(admin, id); err != nil {
		flashError(w, r, redirectUsers, i18n.T(lang, "user.self_delete"))
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		slog.Error("failed to delete user", "user_id", id, "error", err)
		h.errors.internal(w, r)
		return
	}

	logEvent(r.Context(), h.queries, r, model.EventLevelInfo, model.EventCategoryUser,
		"user deleted by "+admin.Username, admin.ID)
	flashSuccess(w, r, redirectUsers, i18n.T(lang, "user.deleted"))
}

// requireAdmin returns the acting admin, rendering the 403 page for
// anyone else.
func (h *UserHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := middleware.GetUser(r)
	if err := auth.RequireRole(user, model.RoleAdmin); err != nil {
		h.errors.forbidden(w, r)
		return nil, false
	}
	return user, true
}

func (h *UserHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any, errs []string) {
	lang := middleware.GetLang(r)
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:       title,
		Data:        data,
		CurrentUser: middleware.GetUser(r),
		ActivePage:  "users",
		Lang:        lang,
		Errors:      errs,
	})
	if err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
		http.Error(w, i18n.T(lang, "error.system"), http.StatusInternalServerError)
	}
}
