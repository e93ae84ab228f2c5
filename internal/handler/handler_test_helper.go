// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rumiland/crm/internal/auth"
	"github.com/rumiland/crm/internal/i18n"
	"github.com/rumiland/crm/internal/middleware"
	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/render"
	"github.com/rumiland/crm/internal/session"
	"github.com/rumiland/crm/internal/store"
	"github.com/rumiland/crm/internal/testutil"
)

// testTemplates is a minimal template set: every page the handlers
// render, each exposing just enough of the data to assert on.
func testTemplates() fstest.MapFS {
	base := `{{define "base"}}<html lang="{{.Lang}}" dir="rtl"><body>` +
		`{{if .Flash}}<div class="alert-{{.FlashType}}">{{.Flash}}</div>{{end}}` +
		`{{range .Errors}}<p class="error">{{.}}</p>{{end}}` +
		`{{template "content" .}}</body></html>{{end}}`

	page := func(body string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte(`{{define "content"}}` + body + `{{end}}`)}
	}

	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(base)},
		"pages/customers.html": page(
			`<h1>{{.Title}}</h1>{{range .Data}}<tr data-id="{{.ID}}">{{.FullName}}</tr>{{end}}`),
		"pages/customer_add.html":  page(`<form>{{.Title}}</form>`),
		"pages/customer_edit.html": page(`<form>{{.Data.Customer.FullName}}</form>`),
		"pages/customer_detail.html": page(
			`<h1>{{.Data.Customer.FullName}}</h1>` +
				`{{range .Data.Transactions}}<tr>{{typeName .Type}}</tr>{{end}}` +
				`<span id="total">{{formatToman .Data.Total}}</span>`),
		"pages/transaction_add.html": page(`<form>{{.Data.FullName}}</form>`),
		"pages/catalog.html":         page(`{{range .Data}}<tr>{{.Name}}</tr>{{end}}`),
		"pages/product_add.html":     page(`<form>{{.Title}}</form>`),
		"pages/users.html":           page(`{{range .Data}}<tr>{{.Username}}</tr>{{end}}`),
		"pages/user_add.html":        page(`<form>{{.Title}}</form>`),
		"auth/login.html":            page(`<form id="login">{{.Title}}</form>`),
		"errors/404.html":            page(`<h1>404</h1>`),
		"errors/403.html":            page(`<h1>403</h1>`),
		"errors/500.html":            page(`<h1>500</h1>`),
	}
}

// testApp bundles everything a handler test needs.
type testApp struct {
	db              *sql.DB
	queries         *store.Queries
	renderer        *render.Renderer
	authenticator   *session.Authenticator
	loginProtection *middleware.LoginProtection
	router          chi.Router
}

// newTestApp builds a router wired the way cmd/crm does, minus CSRF
// and rate limiting so tests can POST directly.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	queries := store.New(db)
	logger := testutil.TestLogger()
	authenticator := session.NewAuthenticator(queries, logger, session.DefaultLifetime)

	if err := i18n.Init(logger); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}

	renderer, err := render.New(render.Config{TemplatesFS: testTemplates(), IsDev: true})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	authHandler := NewAuthHandler(db, renderer, authenticator, lp, true)
	customerHandler := NewCustomerHandler(db, renderer)
	transactionHandler := NewTransactionHandler(db, renderer)
	catalogHandler := NewCatalogHandler(db, renderer)
	userHandler := NewUserHandler(db, renderer)
	exportHandler := NewExportHandler(db, renderer)
	healthHandler := NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(middleware.Language("fa"))
	r.Use(middleware.LoadUser(authenticator))

	r.Get(RouteHealth, healthHandler.Health)
	r.Get(RouteLogin, authHandler.LoginForm)
	r.Post(RouteLogin, authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())

		r.Post(RouteLogout, authHandler.Logout)

		r.Get(RouteRoot, customerHandler.List)
		r.Get(RouteCustomersAdd, customerHandler.AddForm)
		r.Post(RouteCustomersAdd, customerHandler.Add)
		r.Get(RouteCustomersID, customerHandler.Detail)
		r.Get(RouteCustomersIDEdit, customerHandler.EditForm)
		r.Post(RouteCustomersIDEdit, customerHandler.Update)
		r.Post(RouteCustomersIDDelete, customerHandler.Delete)
		r.Get(RouteCustomersIDTransaction, transactionHandler.AddForm)
		r.Post(RouteCustomersIDTransaction, transactionHandler.Add)
		r.Get(RouteExportCustomers, exportHandler.Customers)

		r.Get(RouteCatalog, catalogHandler.List)
		r.Get(RouteCatalogAdd, catalogHandler.AddForm)
		r.Post(RouteCatalogAdd, catalogHandler.Add)
		r.Post(RouteCatalogIDDelete, catalogHandler.Delete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Get(RouteUsers, userHandler.List)
			r.Get(RouteUsersAdd, userHandler.AddForm)
			r.Post(RouteUsersAdd, userHandler.Add)
			r.Post(RouteUsersIDDelete, userHandler.Delete)
		})
	})

	return &testApp{
		db:              db,
		queries:         queries,
		renderer:        renderer,
		authenticator:   authenticator,
		loginProtection: lp,
		router:          r,
	}
}

// createUser inserts a user with a real argon2id hash for password.
func (app *testApp) createUser(t *testing.T, username, password, role string) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	user, err := app.queries.CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		FullName:     "کاربر آزمایشی",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// login creates a session for the user and returns its cookie.
func (app *testApp) login(t *testing.T, userID int64) *http.Cookie {
	t.Helper()

	token, err := app.authenticator.Create(context.Background(), userID, time.Now())
	if err != nil {
		t.Fatalf("Create session: %v", err)
	}
	return session.NewCookie(token, true)
}

// createCustomer inserts a customer with sensible defaults.
func (app *testApp) createCustomer(t *testing.T, fullName string) model.Customer {
	t.Helper()

	customer, err := app.queries.CreateCustomer(context.Background(), store.CustomerParams{
		FullName:    fullName,
		Company:     "شرکت آزمایشی",
		Email:       "test@example.com",
		PhoneNumber: "09123456789",
		City:        model.CityZanjan.Code(),
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	return customer
}
