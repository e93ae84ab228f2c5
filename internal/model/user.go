// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Customer, Transaction, and Product.
package model

import "time"

// User roles. Role checks are exact-match: admin is not implicitly
// a "user" for role-gated purposes.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleUser
}

// RoleDisplayName returns the Persian display name for a role.
func RoleDisplayName(role string) string {
	switch role {
	case RoleAdmin:
		return "مدیر"
	case RoleUser:
		return "کاربر"
	default:
		return role
	}
}

// User represents an application user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
