// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Customer represents a CRM customer.
type Customer struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Company     string `json:"company"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	SalesCount  int64  `json:"sales_count"`
	// PurchaseDate is stored as a Gregorian YYYY-MM-DD string (empty when
	// unknown) and rendered in the Jalali calendar.
	PurchaseDate string `json:"purchase_date"`
	JobTitle     string `json:"job_title"`
	City         string `json:"city"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
}

// CityDisplayName returns the Persian name of the customer's city.
func (c *Customer) CityDisplayName() string {
	return CityFromCode(c.City).DisplayName()
}
