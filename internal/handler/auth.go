// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rumiland/crm/internal/auth"
	"github.com/rumiland/crm/internal/i18n"
	"github.com/rumiland/crm/internal/middleware"
	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/render"
	"github.com/rumiland/crm/internal/session"
	"github.com/rumiland/crm/internal/store"
)

// AuthHandler handles the login and logout routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	authenticator   *session.Authenticator
	loginProtection *middleware.LoginProtection
	isDev           bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, a *session.Authenticator, lp *middleware.LoginProtection, isDev bool) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		authenticator:   a,
		loginProtection: lp,
		isDev:           isDev,
	}
}

// LoginForm renders the login page. Already-authenticated users are
// sent straight to the customer list.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectCustomers, http.StatusSeeOther)
		return
	}

	lang := middleware.GetLang(r)

	data := render.TemplateData{
		Title: i18n.T(lang, "auth.login"),
		Lang:  lang,
	}
	if r.URL.Query().Get("expired") == "1" {
		data.Errors = []string{i18n.T(lang, "auth.session_expired")}
	}

	if err := h.renderer.Render(w, r, "auth/login", data); err != nil {
		slog.Error("failed to render login page", "error", err)
		http.Error(w, i18n.T(lang, "error.system"), http.StatusInternalServerError)
	}
}

// Login handles the login form submission. Failed and locked-out
// attempts get the same generic message so usernames cannot be probed.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	if !parseFormOrRedirect(w, r, redirectLogin) {
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		flashError(w, r, redirectLogin, i18n.T(lang, "auth.login_failed"))
		return
	}

	if locked, _ := h.loginProtection.IsAccountLocked(username); locked {
		logEvent(r.Context(), h.queries, r, model.EventLevelWarning, model.EventCategoryAuth,
			"login attempt on locked account: "+username, 0)
		flashError(w, r, redirectLogin, i18n.T(lang, "auth.too_many_attempts"))
		return
	}

	user, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil {
		// A store failure is not a bad credential: it must neither look
		// like one nor advance the lockout counter.
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
			flashError(w, r, redirectLogin, i18n.T(lang, "error.system_detail"))
			return
		}
		// Record the miss even for unknown usernames so enumeration
		// costs the same as guessing a password.
		h.recordFailure(w, r, lang, username)
		return
	}

	if ok, err := auth.CheckPassword(password, user.PasswordHash); err != nil || !ok {
		logEvent(r.Context(), h.queries, r, model.EventLevelWarning, model.EventCategoryAuth,
			"login failed for "+username, 0)
		h.recordFailure(w, r, lang, username)
		return
	}

	h.loginProtection.RecordSuccessfulLogin(username)

	// Transparent parameter upgrades on successful verification.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			err = h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				ID:           user.ID,
				PasswordHash: newHash,
			})
			if err != nil {
				slog.Error("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	token, err := h.authenticator.Create(r.Context(), user.ID, time.Now())
	if err != nil {
		slog.Error("failed to create session", "user_id", user.ID, "error", err)
		flashError(w, r, redirectLogin, i18n.T(lang, "error.system_detail"))
		return
	}

	http.SetCookie(w, session.NewCookie(token, h.isDev))
	logEvent(r.Context(), h.queries, r, model.EventLevelInfo, model.EventCategoryAuth,
		"user logged in: "+username, user.ID)

	flashSuccess(w, r, redirectCustomers, fmt.Sprintf(i18n.T(lang, "auth.welcome"), user.FullName))
}

// recordFailure books a failed attempt and answers with the generic
// login-failed message, or the lockout message when the attempt
// tripped the limit.
func (h *AuthHandler) recordFailure(w http.ResponseWriter, r *http.Request, lang, username string) {
	if locked, _ := h.loginProtection.RecordFailedAttempt(username); locked {
		flashError(w, r, redirectLogin, i18n.T(lang, "auth.too_many_attempts"))
		return
	}
	flashError(w, r, redirectLogin, i18n.T(lang, "auth.login_failed"))
}

// Logout destroys the current session and clears the cookie.
// Safe to call without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	if token := session.TokenFromRequest(r); token != "" {
		if err := h.authenticator.Destroy(r.Context(), token); err != nil {
			slog.Error("failed to destroy session", "error", err)
		}
	}

	if user := middleware.GetUser(r); user != nil {
		logEvent(r.Context(), h.queries, r, model.EventLevelInfo, model.EventCategoryAuth,
			"user logged out: "+user.Username, user.ID)
	}

	http.SetCookie(w, session.ClearCookie(h.isDev))
	flashSuccess(w, r, redirectLogin, i18n.T(lang, "auth.logout_success"))
}
