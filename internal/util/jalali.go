// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// ErrBadJalaliDate is returned for input that is not a YYYY/MM/DD
// Jalali date. The message is user-facing.
var ErrBadJalaliDate = errors.New("فرمت تاریخ معتبر نیست. لطفا از فرمت YYYY/MM/DD استفاده کنید")

// isoDate is the Gregorian storage format.
const isoDate = "2006-01-02"

// ParseJalaliToISO parses a Jalali date like "1403/05/12" (Persian
// digits accepted) and returns the Gregorian date in YYYY-MM-DD form,
// the format the store persists.
func ParseJalaliToISO(s string) (string, error) {
	s = strings.TrimSpace(ToLatinDigits(s))
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", ErrBadJalaliDate
	}

	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", ErrBadJalaliDate
	}
	if year < 1200 || year > 1600 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", ErrBadJalaliDate
	}

	pt := ptime.Date(year, ptime.Month(month), day, 12, 0, 0, 0, ptime.Iran())
	// ptime normalizes out-of-range days (e.g. 1403/07/31) instead of
	// rejecting them; round-trip to catch those.
	if pt.Year() != year || int(pt.Month()) != month || pt.Day() != day {
		return "", ErrBadJalaliDate
	}

	return pt.Time().Format(isoDate), nil
}

// FormatISOToJalali renders a stored Gregorian YYYY-MM-DD date as a
// Jalali YYYY/MM/DD string. Invalid or empty input is returned as-is,
// matching how legacy rows with free-form dates are displayed.
func FormatISOToJalali(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(isoDate, iso)
	if err != nil {
		// Some rows carry a trailing time component.
		t, err = time.Parse("2006-01-02 15:04:05", iso)
		if err != nil {
			return iso
		}
	}
	pt := ptime.New(t)
	return fmt.Sprintf("%04d/%02d/%02d", pt.Year(), int(pt.Month()), pt.Day())
}

// TodayJalali returns today's date in Jalali YYYY/MM/DD form.
func TodayJalali(now time.Time) string {
	pt := ptime.New(now)
	return fmt.Sprintf("%04d/%02d/%02d", pt.Year(), int(pt.Month()), pt.Day())
}
