// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/url"
)

// Flash messages travel in a short-lived cookie: set on the redirect
// response, consumed by the next render. Values are URL-encoded so
// Persian text survives the cookie value restrictions.
const (
	flashCookie     = "crm_flash"
	flashTypeCookie = "crm_flash_type"
)

// Flash types rendered as different alert styles.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// SetFlash stores a one-shot flash message for the next page load.
func SetFlash(w http.ResponseWriter, message, flashType string) {
	if flashType == "" {
		flashType = FlashInfo
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     flashTypeCookie,
		Value:    flashType,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// PopFlash reads and clears the pending flash message.
// Returns ("", "") when none is pending.
func PopFlash(w http.ResponseWriter, r *http.Request) (message, flashType string) {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return "", ""
	}

	message, err = url.QueryUnescape(c.Value)
	if err != nil || message == "" {
		return "", ""
	}

	flashType = FlashInfo
	if tc, err := r.Cookie(flashTypeCookie); err == nil && tc.Value != "" {
		flashType = tc.Value
	}

	for _, name := range []string{flashCookie, flashTypeCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}

	return message, flashType
}
