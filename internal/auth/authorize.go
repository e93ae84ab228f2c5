// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"

	"github.com/rumiland/crm/internal/model"
)

// Authorization failures. Handlers map these to the 401 redirect and
// the 403 page respectively.
var (
	ErrUnauthenticated = errors.New("auth: not authenticated")
	ErrForbidden       = errors.New("auth: insufficient role")
	ErrSelfDelete      = errors.New("auth: cannot delete own account")
)

// RequireRole checks that user holds exactly the required role. There
// is no role hierarchy: an admin asking for "user" resources through a
// user-only gate is rejected the same as anyone else.
func RequireRole(user *model.User, role string) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if user.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireAnyRole checks that user holds one of the listed roles.
func RequireAnyRole(user *model.User, roles ...string) error {
	if user == nil {
		return ErrUnauthenticated
	}
	for _, r := range roles {
		if user.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// CheckSelfDelete guards the one business rule layered on top of the
// role check: a user may never delete their own account, admin or not.
func CheckSelfDelete(actor *model.User, targetID int64) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.ID == targetID {
		return ErrSelfDelete
	}
	return nil
}
