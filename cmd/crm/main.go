// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/rumiland/crm/internal/config"
	"github.com/rumiland/crm/internal/handler"
	"github.com/rumiland/crm/internal/i18n"
	"github.com/rumiland/crm/internal/logging"
	"github.com/rumiland/crm/internal/middleware"
	"github.com/rumiland/crm/internal/render"
	"github.com/rumiland/crm/internal/scheduler"
	"github.com/rumiland/crm/internal/session"
	"github.com/rumiland/crm/internal/store"
	"github.com/rumiland/crm/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "crm - Persian customer relationship management\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options] [command]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Commands:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  create-admin <username> <password> [full name]   Create or replace an admin account\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CRM_CSRF_KEY               CSRF signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CRM_DB_PATH                SQLite database path (default: ./data/crm.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CRM_SERVER_PORT            Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CRM_ENV                    Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CRM_SESSION_TTL_HOURS      Session lifetime in hours (default: 24)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CRM_EVENT_RETENTION_DAYS   Audit log retention in days (default: 90)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CRM_DEFAULT_LANG           Interface language: fa|en (default: fa)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("crm %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	var err error
	if flag.Arg(0) == "create-admin" {
		err = runCreateAdmin(flag.Args()[1:])
	} else {
		err = run()
	}
	if err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// openDatabase loads config, opens the SQLite database and applies
// migrations. Shared by the server and the create-admin command.
func openDatabase() (*config.Config, *sql.DB, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing database: %w", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	return cfg, db, nil
}

func run() error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	// WARN and ERROR records also land in the audit event log.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("database ready", "path", cfg.DBPath)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n initialized", "languages", i18n.SupportedLanguages, "default", cfg.DefaultLang)

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db, logger); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Template renderer over the embedded templates
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	queries := store.New(db)
	authenticator := session.NewAuthenticator(queries, logger, cfg.SessionTTL())

	// Background maintenance: session purge and event log trim
	sched := scheduler.New(queries, authenticator, logger, cfg.EventRetention())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	authHandler := handler.NewAuthHandler(db, renderer, authenticator, loginProtection, cfg.IsDevelopment())
	customerHandler := handler.NewCustomerHandler(db, renderer)
	transactionHandler := handler.NewTransactionHandler(db, renderer)
	catalogHandler := handler.NewCatalogHandler(db, renderer)
	userHandler := handler.NewUserHandler(db, renderer)
	exportHandler := handler.NewExportHandler(db, renderer)
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.CSRFKey), cfg.IsDevelopment())))
	r.Use(middleware.Language(cfg.DefaultLang))
	r.Use(middleware.LoadUser(authenticator))

	// Embedded static assets
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	r.Get(handler.RouteHealth, healthHandler.Health)

	r.Group(func(r chi.Router) {
		r.Use(loginProtection.Middleware())
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.Post(handler.RouteLogin, authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())

		r.Post(handler.RouteLogout, authHandler.Logout)

		r.Get(handler.RouteRoot, customerHandler.List)
		r.Get(handler.RouteCustomersAdd, customerHandler.AddForm)
		r.Post(handler.RouteCustomersAdd, customerHandler.Add)
		r.Get(handler.RouteCustomersID, customerHandler.Detail)
		r.Get(handler.RouteCustomersIDEdit, customerHandler.EditForm)
		r.Post(handler.RouteCustomersIDEdit, customerHandler.Update)
		r.Post(handler.RouteCustomersIDDelete, customerHandler.Delete)

		r.Get(handler.RouteCustomersIDTransaction, transactionHandler.AddForm)
		r.Post(handler.RouteCustomersIDTransaction, transactionHandler.Add)

		r.Get(handler.RouteExportCustomers, exportHandler.Customers)

		r.Get(handler.RouteCatalog, catalogHandler.List)
		r.Get(handler.RouteCatalogAdd, catalogHandler.AddForm)
		r.Post(handler.RouteCatalogAdd, catalogHandler.Add)
		r.Post(handler.RouteCatalogIDDelete, catalogHandler.Delete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Get(handler.RouteUsers, userHandler.List)
			r.Get(handler.RouteUsersAdd, userHandler.AddForm)
			r.Post(handler.RouteUsersAdd, userHandler.Add)
			r.Post(handler.RouteUsersIDDelete, userHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
