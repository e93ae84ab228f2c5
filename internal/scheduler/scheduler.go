// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: purging
// expired sessions and trimming old audit events.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rumiland/crm/internal/session"
	"github.com/rumiland/crm/internal/store"
)

// Scheduler handles recurring maintenance tasks.
type Scheduler struct {
	queries       *store.Queries
	authenticator *session.Authenticator
	cron          *cron.Cron
	logger        *slog.Logger
	retention     time.Duration
}

// New creates a new scheduler instance. retention controls how long
// audit events are kept.
func New(queries *store.Queries, authenticator *session.Authenticator, logger *slog.Logger, retention time.Duration) *Scheduler {
	return &Scheduler{
		queries:       queries,
		authenticator: authenticator,
		cron:          cron.New(),
		logger:        logger,
		retention:     retention,
	}
}

// Start registers the maintenance jobs and begins the cron loop:
// expired sessions are purged hourly, old audit events daily.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.purgeSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@daily", s.trimEvents); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// purgeSessions removes sessions dead as of now. The per-request lazy
// cleanup only touches sessions that are presented again; this sweep
// catches the abandoned ones.
func (s *Scheduler) purgeSessions() {
	n, err := s.authenticator.PurgeExpired(context.Background(), time.Now())
	if err != nil {
		s.logger.Error("failed to purge expired sessions", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("purged expired sessions", "count", n)
	}
}

// trimEvents deletes audit events older than the retention window.
func (s *Scheduler) trimEvents() {
	if s.retention <= 0 {
		return
	}

	cutoff := time.Now().Add(-s.retention)
	n, err := s.queries.DeleteEventsBefore(context.Background(), cutoff)
	if err != nil {
		s.logger.Error("failed to trim audit events", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("trimmed audit events", "count", n, "cutoff", cutoff)
	}
}
