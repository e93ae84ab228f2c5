// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mileusna/useragent"

	"github.com/rumiland/crm/internal/i18n"
	"github.com/rumiland/crm/internal/middleware"
	"github.com/rumiland/crm/internal/render"
	"github.com/rumiland/crm/internal/store"
)

// parseIDParam extracts the {id} URL parameter as int64.
// Returns 0 and false when the parameter is missing or not a number.
func parseIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, url, message string) {
	render.SetFlash(w, message, render.FlashError)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, url, message string) {
	render.SetFlash(w, message, render.FlashSuccess)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// parseFormOrRedirect parses the request form, redirecting with a
// validation flash on failure. Returns false when it redirected.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, redirectURL, i18n.T(middleware.GetLang(r), "error.validation_detail"))
		return false
	}
	return true
}

// errorRenderer renders the shared error pages. Handlers fall back to
// plain http.Error when the template itself fails.
type errorRenderer struct {
	renderer *render.Renderer
}

func (e errorRenderer) render(w http.ResponseWriter, r *http.Request, status int, page, titleKey string) {
	lang := middleware.GetLang(r)
	w.WriteHeader(status)
	err := e.renderer.Render(w, r, "errors/"+page, render.TemplateData{
		Title:       i18n.T(lang, titleKey),
		CurrentUser: middleware.GetUser(r),
		Lang:        lang,
	})
	if err != nil {
		slog.Error("failed to render error page", "page", page, "error", err)
		http.Error(w, i18n.T(lang, "error.system"), status)
	}
}

func (e errorRenderer) notFound(w http.ResponseWriter, r *http.Request) {
	e.render(w, r, http.StatusNotFound, "404", "error.not_found")
}

func (e errorRenderer) forbidden(w http.ResponseWriter, r *http.Request) {
	e.render(w, r, http.StatusForbidden, "403", "auth.forbidden")
}

func (e errorRenderer) internal(w http.ResponseWriter, r *http.Request) {
	e.render(w, r, http.StatusInternalServerError, "500", "error.system")
}

// logEvent writes an audit event enriched with the client IP, request
// path and parsed user agent. Failures are logged, never surfaced.
func logEvent(ctx context.Context, queries *store.Queries, r *http.Request, level, category, message string, userID int64) {
	ua := useragent.Parse(r.UserAgent())
	metadata, _ := json.Marshal(map[string]any{
		"browser":    ua.Name,
		"os":         ua.OS,
		"mobile":     ua.Mobile,
		"request_id": middleware.GetRequestID(ctx),
	})

	arg := store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		IP:        sql.NullString{String: middleware.ClientIP(r), Valid: true},
		Path:      sql.NullString{String: r.URL.Path, Valid: true},
		Metadata:  string(metadata),
		CreatedAt: time.Now().UTC(),
	}
	if userID > 0 {
		arg.UserID = sql.NullInt64{Int64: userID, Valid: true}
	}

	if _, err := queries.CreateEvent(ctx, arg); err != nil {
		slog.Error("failed to write audit event", "category", category, "error", err)
	}
}
