// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers for Persian text,
// Iranian phone numbers, Jalali dates, and export file naming.
package util

import "strings"

var persianDigits = [10]rune{'۰', '۱', '۲', '۳', '۴', '۵', '۶', '۷', '۸', '۹'}

// ToPersianDigits replaces Latin digits 0-9 with their Persian
// (Eastern Arabic) equivalents. Other characters pass through unchanged.
func ToPersianDigits(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(persianDigits[r-'0'])
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ToLatinDigits replaces Persian and Arabic-Indic digits with Latin
// digits. Form input frequently arrives with Persian digits from
// Persian keyboard layouts.
func ToLatinDigits(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '۰' && r <= '۹': // Persian digits U+06F0..U+06F9
			sb.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩': // Arabic-Indic digits U+0660..U+0669
			sb.WriteRune('0' + (r - '٠'))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// GroupThousands inserts Persian thousands separators (U+066C) into an
// integer string, e.g. "1250000" -> "1٬250٬000".
func GroupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	first := n % 3
	if first > 0 {
		sb.WriteString(s[:first])
	}
	for i := first; i < n; i += 3 {
		if i > 0 {
			sb.WriteRune('٬')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
