// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Product represents a catalog product.
type Product struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Stock       int64          `json:"stock"`
	ImageURL    sql.NullString `json:"image_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// StockStatusClass returns the badge CSS class for the stock level.
func (p *Product) StockStatusClass() string {
	switch {
	case p.Stock > 50:
		return "badge-success"
	case p.Stock > 0:
		return "badge-warning"
	default:
		return "badge-error"
	}
}
