// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"strings"
)

// Email validation errors with user-facing Persian messages.
var (
	ErrEmailEmpty         = errors.New("آدرس ایمیل نمی‌تواند خالی باشد")
	ErrEmailNoAt          = errors.New("آدرس ایمیل باید شامل @ باشد")
	ErrEmailBadFormat     = errors.New("فرمت ایمیل نامعتبر است")
	ErrEmailEmptyLocal    = errors.New("نام کاربری ایمیل نمی‌تواند خالی باشد")
	ErrEmailBadDomain     = errors.New("آدرس ایمیل باید شامل نام دامنه معتبر باشد")
	ErrEmailHasSpace      = errors.New("آدرس ایمیل نباید شامل فاصله باشد")
	ErrEmailTooShort      = errors.New("آدرس ایمیل خیلی کوتاه است")
	ErrEmailDoubleDot     = errors.New("آدرس ایمیل نباید شامل نقطه‌های متوالی باشد")
	ErrEmailEdgeDot       = errors.New("آدرس ایمیل نباید با نقطه شروع یا تمام شود")
)

// domainTypos maps common misspelled mail domains to their intended form.
var domainTypos = map[string]string{
	"gmial.com":   "gmail.com",
	"gmai.com":    "gmail.com",
	"gmil.com":    "gmail.com",
	"gmail.co":    "gmail.com",
	"gmail.con":   "gmail.com",
	"yahoo.co":    "yahoo.com",
	"yahoo.con":   "yahoo.com",
	"yaho.com":    "yahoo.com",
	"hotmial.com": "hotmail.com",
	"hotmai.com":  "hotmail.com",
	"outlok.com":  "outlook.com",
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates an email address and returns its normalized
// form. A suspected domain typo is rejected with a suggestion so the
// operator can confirm instead of silently storing a dead address.
func ValidateEmail(email string) (string, error) {
	email = NormalizeEmail(email)

	if email == "" {
		return "", ErrEmailEmpty
	}
	if !strings.Contains(email, "@") {
		return "", ErrEmailNoAt
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "", ErrEmailBadFormat
	}
	local, domain := parts[0], parts[1]

	if local == "" {
		return "", ErrEmailEmptyLocal
	}
	if !strings.Contains(domain, ".") {
		return "", ErrEmailBadDomain
	}
	if strings.Contains(email, " ") {
		return "", ErrEmailHasSpace
	}
	if len(email) < 5 { // a@b.c
		return "", ErrEmailTooShort
	}
	if strings.Contains(email, "..") {
		return "", ErrEmailDoubleDot
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") ||
		strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", ErrEmailEdgeDot
	}

	if correct, ok := domainTypos[domain]; ok {
		return "", fmt.Errorf("آیا منظورتان %s@%s است؟", local, correct)
	}

	return email, nil
}
