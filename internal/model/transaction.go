// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Transaction types.
const (
	TransactionSale    = "sale"
	TransactionPayment = "payment"
	TransactionRefund  = "refund"
)

// ValidTransactionType reports whether s is a known transaction type.
func ValidTransactionType(s string) bool {
	return s == TransactionSale || s == TransactionPayment || s == TransactionRefund
}

// TransactionTypeDisplayName returns the Persian display name for a
// transaction type.
func TransactionTypeDisplayName(t string) string {
	switch t {
	case TransactionSale:
		return "فروش"
	case TransactionPayment:
		return "دریافت وجه"
	case TransactionRefund:
		return "برگشت وجه"
	default:
		return t
	}
}

// Transaction represents a financial transaction belonging to a customer.
type Transaction struct {
	ID          int64   `json:"id"`
	CustomerID  int64   `json:"customer_id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"transaction_type"`
	Description string  `json:"description"`
	// TransactionDate is stored as a Gregorian YYYY-MM-DD string and
	// rendered in the Jalali calendar.
	TransactionDate string `json:"transaction_date"`
}
