// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session implements database-backed login sessions: opaque
// random tokens stored as rows, carried by an HttpOnly cookie, and an
// authenticator that resolves a token to its user against an explicit
// clock.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"
)

// CookieName is the login session cookie.
const CookieName = "crm_session"

// DefaultLifetime is how long a session stays valid after login.
const DefaultLifetime = 24 * time.Hour

// tokenBytes gives 256 bits of entropy per token.
const tokenBytes = 32

// NewToken generates a cryptographically random session token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewCookie builds the session cookie for a token. The cookie is a
// browser-session cookie on purpose: the authoritative lifetime lives
// in the database row, not in Max-Age.
func NewCookie(token string, isDev bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	}
}

// ClearCookie builds an expired cookie that removes the session cookie
// from the browser.
func ClearCookie(isDev bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
		MaxAge:   -1,
	}
}

// TokenFromRequest extracts the session token from the request cookie.
// Returns "" when the cookie is absent.
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
