// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/rumiland/crm/internal/model"
)

const customerColumns = "id, full_name, company, email, phone_number, sales_count, " +
	"purchase_date, job_title, city, address, notes"

func scanCustomer(row interface{ Scan(...any) error }) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.FullName, &c.Company, &c.Email, &c.PhoneNumber,
		&c.SalesCount, &c.PurchaseDate, &c.JobTitle, &c.City, &c.Address, &c.Notes)
	return c, err
}

// CustomerParams holds the writable customer fields, shared by create
// and update.
type CustomerParams struct {
	FullName     string
	Company      string
	Email        string
	PhoneNumber  string
	SalesCount   int64
	PurchaseDate string
	JobTitle     string
	City         string
	Address      string
	Notes        string
}

// CreateCustomer inserts a customer and returns the stored row.
func (q *Queries) CreateCustomer(ctx context.Context, arg CustomerParams) (model.Customer, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO customers (full_name, company, email, phone_number, sales_count,
			purchase_date, job_title, city, address, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+customerColumns,
		arg.FullName, arg.Company, arg.Email, arg.PhoneNumber, arg.SalesCount,
		arg.PurchaseDate, arg.JobTitle, arg.City, arg.Address, arg.Notes)
	return scanCustomer(row)
}

// GetCustomerByID fetches a customer by primary key.
func (q *Queries) GetCustomerByID(ctx context.Context, id int64) (model.Customer, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = ?", id)
	return scanCustomer(row)
}

// ListCustomers returns all customers, newest first.
func (q *Queries) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var customers []model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// UpdateCustomer rewrites all writable fields of a customer. Returns
// sql.ErrNoRows semantics via rows affected: callers should treat a
// zero count as not-found.
func (q *Queries) UpdateCustomer(ctx context.Context, id int64, arg CustomerParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE customers
		SET full_name = ?, company = ?, email = ?, phone_number = ?, sales_count = ?,
			purchase_date = ?, job_title = ?, city = ?, address = ?, notes = ?
		WHERE id = ?`,
		arg.FullName, arg.Company, arg.Email, arg.PhoneNumber, arg.SalesCount,
		arg.PurchaseDate, arg.JobTitle, arg.City, arg.Address, arg.Notes, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteCustomer removes a customer. Transactions cascade-delete.
func (q *Queries) DeleteCustomer(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	return err
}

// CountCustomers returns the total number of customers.
func (q *Queries) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&n)
	return n, err
}
