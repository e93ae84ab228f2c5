// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ConflictError reports a uniqueness violation on a named field. It is
// produced by the query method that knows its unique column, based on
// the driver's error code, never by inspecting error message text.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return "duplicate value for " + e.Field
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// conflictOn converts a unique-constraint driver error into a
// *ConflictError for the given field; other errors pass through.
func conflictOn(err error, field string) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &ConflictError{Field: field}
		}
	}
	return err
}
