// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth     = "auth"
	EventCategoryUser     = "user"
	EventCategoryCustomer = "customer"
	EventCategorySystem   = "system"
)

// Event is an audit log entry. Events are written on login/logout,
// access denials, and for every WARN+ application log record.
type Event struct {
	ID        int64          `json:"id"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	UserID    sql.NullInt64  `json:"user_id,omitempty"`
	IP        sql.NullString `json:"ip,omitempty"`
	Path      sql.NullString `json:"path,omitempty"`
	Metadata  string         `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}
