// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"strings"
)

// PhoneType distinguishes Iranian mobile and landline numbers.
type PhoneType int

// Phone types.
const (
	PhoneUnknown PhoneType = iota
	PhoneMobile
	PhoneLandline
)

// Phone validation errors carry the Persian message shown to the user.
var (
	ErrPhoneNoZeroPrefix = errors.New("شماره تلفن نامعتبر است. شماره تلفن باید با 0 شروع شود")
	ErrPhoneBadMobile    = errors.New("شماره موبایل نامعتبر است. شماره موبایل باید با 9 شروع شود")
	ErrPhoneBadFormat    = errors.New("فرمت شماره تلفن نامعتبر است")
	ErrPhoneBadLength    = errors.New("شماره تلفن نامعتبر است. لطفاً یک شماره تلفن معتبر 11 رقمی وارد کنید")
)

// phoneDigits strips everything but digits, converting Persian digits first.
func phoneDigits(phone string) string {
	var sb strings.Builder
	for _, r := range ToLatinDigits(phone) {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NormalizePhone validates an Iranian phone number (mobile or landline)
// and normalizes it to the local 11-digit 0-prefixed form. Accepted
// inputs: 09123456789, 9123456789, +989123456789, 989123456789, and
// 11-digit landlines, with optional separators and Persian digits.
func NormalizePhone(phone string) (string, error) {
	digits := phoneDigits(phone)

	switch len(digits) {
	case 11:
		if strings.HasPrefix(digits, "0") {
			return digits, nil
		}
		return "", ErrPhoneNoZeroPrefix
	case 10:
		// Mobile without the leading zero.
		if strings.HasPrefix(digits, "9") {
			return "0" + digits, nil
		}
		return "", ErrPhoneBadMobile
	case 12, 13:
		// International mobile: 989... or 00989...-style input collapses
		// to 12 or 13 digits.
		if i := strings.Index(digits, "989"); i == 0 || (i == 2 && strings.HasPrefix(digits, "00")) {
			return "0" + digits[i+2:], nil
		}
		return "", ErrPhoneBadFormat
	default:
		return "", ErrPhoneBadLength
	}
}

// threeDigitAreaCodes are the metropolitan area codes; everywhere else
// uses four digits.
var threeDigitAreaCodes = []string{"021", "026", "031", "041", "051", "071", "061", "034"}

// GetPhoneType classifies an already-normalized 11-digit number.
func GetPhoneType(phone string) PhoneType {
	digits := phoneDigits(phone)
	if len(digits) != 11 || !strings.HasPrefix(digits, "0") {
		return PhoneUnknown
	}
	if strings.HasPrefix(digits, "09") {
		return PhoneMobile
	}
	return PhoneLandline
}

// FormatPhone formats a normalized phone number for display:
// mobiles as 0912 345 6789, metropolitan landlines as 021 4455 6677,
// other landlines as 0241 333 4444. Unrecognized input passes through.
func FormatPhone(phone string) string {
	digits := phoneDigits(phone)

	switch GetPhoneType(digits) {
	case PhoneMobile:
		return digits[0:4] + " " + digits[4:7] + " " + digits[7:11]
	case PhoneLandline:
		for _, code := range threeDigitAreaCodes {
			if strings.HasPrefix(digits, code) {
				return digits[0:3] + " " + digits[3:7] + " " + digits[7:11]
			}
		}
		return digits[0:4] + " " + digits[4:7] + " " + digits[7:11]
	default:
		return phone
	}
}
