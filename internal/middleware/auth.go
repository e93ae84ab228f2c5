// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rumiland/crm/internal/i18n"
	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyUser       ContextKey = "user"
	ContextKeyAuthStatus ContextKey = "auth_status"
	ContextKeyLang       ContextKey = "lang"
)

// LangCookieName stores the visitor's language preference.
const LangCookieName = "crm_lang"

// LoadUser creates middleware that resolves the session cookie to a
// user and stores the outcome in the request context. It never rejects
// a request itself; RequireAuth and RequireAdmin act on the stored
// outcome. Infrastructure failures surface as 500 here because no
// downstream handler can do anything useful without a verdict.
func LoadUser(authenticator *session.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.TokenFromRequest(r)

			res, err := authenticator.Authenticate(r.Context(), token, time.Now())
			if err != nil {
				slog.Error("session lookup failed", "error", err, "path", r.URL.Path)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAuthStatus, res.Status)
			if res.User != nil {
				ctx = context.WithValue(ctx, ContextKeyUser, *res.User)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth creates middleware that redirects unauthenticated
// visitors to the login page. Expired sessions redirect with a marker
// so the login page can explain what happened.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r) != nil {
				next.ServeHTTP(w, r)
				return
			}

			target := "/login"
			if GetAuthStatus(r) == session.StatusExpired {
				target = "/login?expired=1"
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// RequireAdmin creates middleware that admits only users holding
// exactly the admin role. Authenticated non-admins get 403; the denial
// is logged at WARN so it reaches the audit event log.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				target := "/login"
				if GetAuthStatus(r) == session.StatusExpired {
					target = "/login?expired=1"
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			if user.Role != model.RoleAdmin {
				slog.Warn("access denied",
					"category", model.EventCategoryAuth,
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, i18n.T(GetLang(r), "auth.forbidden"), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
// Safe to use in logging where a zero-value is acceptable.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetAuthStatus returns the authentication outcome recorded by
// LoadUser. Defaults to unauthenticated when LoadUser did not run.
func GetAuthStatus(r *http.Request) session.Status {
	status, ok := r.Context().Value(ContextKeyAuthStatus).(session.Status)
	if !ok {
		return session.StatusUnauthenticated
	}
	return status
}

// Language creates middleware that resolves the UI language from the
// preference cookie, falling back to Accept-Language, then the
// configured default.
func Language(defaultLang string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := defaultLang

			if c, err := r.Cookie(LangCookieName); err == nil && i18n.IsSupported(c.Value) {
				lang = c.Value
			} else if accept := r.Header.Get("Accept-Language"); accept != "" {
				lang = i18n.MatchLanguage(accept)
			}

			ctx := context.WithValue(r.Context(), ContextKeyLang, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLang retrieves the resolved UI language from the request context.
func GetLang(r *http.Request) string {
	lang, ok := r.Context().Value(ContextKeyLang).(string)
	if !ok || lang == "" {
		return i18n.DefaultLanguage
	}
	return lang
}
