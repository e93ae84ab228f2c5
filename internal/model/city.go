// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// City is an enumerated customer city. The English code is what gets
// stored; the Persian name is display-only.
type City string

// Known cities.
const (
	CityHidaj         City = "Hidaj"
	CityKhorramdarreh City = "Khorramdarreh"
	CityAbhar         City = "Abhar"
	CityZanjan        City = "Zanjan"
	CityQazvin        City = "Qazvin"
	CityNone          City = ""
)

// AllCities lists the selectable cities in form order.
func AllCities() []City {
	return []City{CityHidaj, CityKhorramdarreh, CityAbhar, CityZanjan, CityQazvin}
}

// CityFromCode parses a stored city code. Unknown codes map to CityNone.
func CityFromCode(s string) City {
	switch City(s) {
	case CityHidaj, CityKhorramdarreh, CityAbhar, CityZanjan, CityQazvin:
		return City(s)
	default:
		return CityNone
	}
}

// Code returns the stored (English) form of the city.
func (c City) Code() string {
	return string(c)
}

// DisplayName returns the Persian name of the city.
func (c City) DisplayName() string {
	switch c {
	case CityHidaj:
		return "هیدج"
	case CityKhorramdarreh:
		return "خرمدره"
	case CityAbhar:
		return "ابهر"
	case CityZanjan:
		return "زنجان"
	case CityQazvin:
		return "قزوین"
	default:
		return "انتخاب کنید"
	}
}
