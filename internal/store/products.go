// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/rumiland/crm/internal/model"
)

const productColumns = "id, name, description, price, stock, image_url, created_at"

// CreateProductParams holds the fields for CreateProduct.
type CreateProductParams struct {
	Name        string
	Description string
	Price       float64
	Stock       int64
	CreatedAt   time.Time
}

// CreateProduct inserts a catalog product.
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (model.Product, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, stock, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+productColumns,
		arg.Name, arg.Description, arg.Price, arg.Stock, arg.CreatedAt)

	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt)
	return p, err
}

// GetProductByID fetches a product by primary key.
func (q *Queries) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)

	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt)
	return p, err
}

// ListProducts returns all products, newest first.
func (q *Queries) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// DeleteProduct removes a product.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	return err
}
