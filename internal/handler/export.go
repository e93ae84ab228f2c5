// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rumiland/crm/internal/middleware"
	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/render"
	"github.com/rumiland/crm/internal/store"
	"github.com/rumiland/crm/internal/util"
)

// exportSheetName is the Persian worksheet title of the customer export.
const exportSheetName = "مشتریان"

// ExportHandler produces the customer list as an Excel workbook.
type ExportHandler struct {
	queries *store.Queries
	errors  errorRenderer
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(db *sql.DB, renderer *render.Renderer) *ExportHandler {
	return &ExportHandler{
		queries: store.New(db),
		errors:  errorRenderer{renderer: renderer},
	}
}

// Customers streams an RTL Excel workbook of all customers. Dates are
// rendered in the Jalali calendar the way the UI shows them.
func (h *ExportHandler) Customers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.queries.ListCustomers(r.Context())
	if err != nil {
		slog.Error("failed to list customers for export", "error", err)
		h.errors.internal(w, r)
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close workbook", "error", err)
		}
	}()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		slog.Error("failed to create worksheet", "error", err)
		h.errors.internal(w, r)
		return
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("failed to drop default sheet", "error", err)
	}

	// Persian sheet, so the columns run right to left.
	rtl := true
	if err := f.SetSheetView(exportSheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		slog.Error("failed to set sheet view", "error", err)
	}

	headers := []string{
		"نام و نام خانوادگی", "شرکت", "ایمیل", "شماره تماس",
		"تعداد خرید", "تاریخ خرید", "سمت", "شهر", "آدرس", "یادداشت",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			slog.Error("failed to write header cell", "cell", cell, "error", err)
		}
	}

	for rowIdx, c := range customers {
		values := []any{
			c.FullName,
			c.Company,
			c.Email,
			util.ToPersianDigits(util.FormatPhone(c.PhoneNumber)),
			util.ToPersianDigits(fmt.Sprint(c.SalesCount)),
			util.ToPersianDigits(util.FormatISOToJalali(c.PurchaseDate)),
			c.JobTitle,
			model.CityFromCode(c.City).DisplayName(),
			c.Address,
			c.Notes,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(exportSheetName, cell, v); err != nil {
				slog.Error("failed to write cell", "cell", cell, "error", err)
			}
		}
	}

	filename := fmt.Sprintf("%s-%s.xlsx", util.Slugify("فهرست مشتریان"), time.Now().Format("2006-01-02"))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(w); err != nil {
		slog.Error("failed to stream workbook", "error", err)
		return
	}

	slog.Info("customers exported", "count", len(customers), "user_id", middleware.GetUserID(r))
}
