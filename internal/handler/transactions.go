// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/rumiland/crm/internal/i18n"
	"github.com/rumiland/crm/internal/middleware"
	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/render"
	"github.com/rumiland/crm/internal/store"
	"github.com/rumiland/crm/internal/util"
)

// TransactionHandler records financial transactions for a customer.
type TransactionHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	errors   errorRenderer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(db *sql.DB, renderer *render.Renderer) *TransactionHandler {
	return &TransactionHandler{
		queries:  store.New(db),
		renderer: renderer,
		errors:   errorRenderer{renderer: renderer},
	}
}

// AddForm renders the add-transaction form for a customer.
func (h *TransactionHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.loadCustomer(w, r)
	if !ok {
		return
	}

	h.renderForm(w, r, customer, nil)
}

// Add handles the add-transaction form submission. The date arrives as
// a Jalali YYYY/MM/DD string, possibly in Persian digits, and is
// stored as Gregorian ISO.
func (h *TransactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.loadCustomer(w, r)
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, fmt.Sprintf(redirectCustomerID, customer.ID)) {
		return
	}

	lang := middleware.GetLang(r)
	var errs []string

	arg := store.CreateTransactionParams{
		CustomerID:  customer.ID,
		Type:        r.PostFormValue("transaction_type"),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}

	if !model.ValidTransactionType(arg.Type) {
		errs = append(errs, i18n.T(lang, "transaction.type_invalid"))
	}

	rawAmount := util.ToLatinDigits(strings.TrimSpace(r.PostFormValue("amount")))
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil || amount <= 0 {
		errs = append(errs, i18n.T(lang, "transaction.amount_invalid"))
	} else {
		arg.Amount = amount
	}

	rawDate := strings.TrimSpace(r.PostFormValue("transaction_date"))
	switch {
	case rawDate == "":
		errs = append(errs, i18n.T(lang, "transaction.date_required"))
	default:
		iso, err := util.ParseJalaliToISO(rawDate)
		if err != nil {
			errs = append(errs, i18n.T(lang, "transaction.date_invalid"))
		} else {
			arg.TransactionDate = iso
		}
	}

	if len(errs) > 0 {
		h.renderForm(w, r, customer, errs)
		return
	}

	if _, err := h.queries.CreateTransaction(r.Context(), arg); err != nil {
		slog.Error("failed to create transaction", "customer_id", customer.ID, "error", err)
		h.errors.internal(w, r)
		return
	}

	slog.Info("transaction recorded", "category", "customer",
		"customer_id", customer.ID, "type", arg.Type, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, fmt.Sprintf(redirectCustomerID, customer.ID), i18n.T(lang, "transaction.created"))
}

func (h *TransactionHandler) loadCustomer(w http.ResponseWriter, r *http.Request) (model.Customer, bool) {
	id, ok := parseIDParam(r)
	if !ok {
		h.errors.notFound(w, r)
		return model.Customer{}, false
	}

	customer, err := h.queries.GetCustomerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errors.notFound(w, r)
			return model.Customer{}, false
		}
		slog.Error("failed to load customer", "customer_id", id, "error", err)
		h.errors.internal(w, r)
		return model.Customer{}, false
	}

	return customer, true
}

func (h *TransactionHandler) renderForm(w http.ResponseWriter, r *http.Request, customer model.Customer, errs []string) {
	lang := middleware.GetLang(r)
	err := h.renderer.Render(w, r, "pages/transaction_add", render.TemplateData{
		Title:       "ثبت تراکنش",
		Data:        customer,
		CurrentUser: middleware.GetUser(r),
		Lang:        lang,
		Errors:      errs,
	})
	if err != nil {
		slog.Error("failed to render transaction form", "error", err)
		http.Error(w, i18n.T(lang, "error.system"), http.StatusInternalServerError)
	}
}
