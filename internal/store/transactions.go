// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/rumiland/crm/internal/model"
)

const transactionColumns = "id, customer_id, amount, transaction_type, description, transaction_date"

// CreateTransactionParams holds the fields for CreateTransaction.
type CreateTransactionParams struct {
	CustomerID      int64
	Amount          float64
	Type            string
	Description     string
	TransactionDate string
}

// CreateTransaction inserts a transaction for a customer.
func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (model.Transaction, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO transactions (customer_id, amount, transaction_type, description, transaction_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+transactionColumns,
		arg.CustomerID, arg.Amount, arg.Type, arg.Description, arg.TransactionDate)

	var t model.Transaction
	err := row.Scan(&t.ID, &t.CustomerID, &t.Amount, &t.Type, &t.Description, &t.TransactionDate)
	return t, err
}

// ListTransactionsByCustomer returns a customer's transactions, newest
// first.
func (q *Queries) ListTransactionsByCustomer(ctx context.Context, customerID int64) ([]model.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE customer_id = ? ORDER BY transaction_date DESC, id DESC",
		customerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Amount, &t.Type, &t.Description, &t.TransactionDate); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// SumTransactionsByCustomer returns the signed sum of a customer's
// transaction amounts (refunds count negative at the handler layer;
// here it is a plain sum).
func (q *Queries) SumTransactionsByCustomer(ctx context.Context, customerID int64) (float64, error) {
	var sum float64
	err := q.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE customer_id = ?",
		customerID).Scan(&sum)
	return sum, err
}
