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

// CustomerHandler handles the customer pages: list, add, detail,
// edit, delete.
type CustomerHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	errors   errorRenderer
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(db *sql.DB, renderer *render.Renderer) *CustomerHandler {
	return &CustomerHandler{
		queries:  store.New(db),
		renderer: renderer,
		errors:   errorRenderer{renderer: renderer},
	}
}

// customerFormData carries a submitted customer form back into the
// template along with its validation errors.
type customerFormData struct {
	Customer model.Customer
	Cities   []model.City
}

// List renders the customer list, the application home page.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.queries.ListCustomers(r.Context())
	if err != nil {
		slog.Error("failed to list customers", "error", err)
		h.errors.internal(w, r)
		return
	}

	h.renderPage(w, r, "pages/customers", "مدیریت مشتریان", "list", customers, nil)
}

// AddForm renders the add-customer form.
func (h *CustomerHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "pages/customer_add", "افزودن مشتری", "add", customerFormData{
		Cities: model.AllCities(),
	}, nil)
}

// Add handles the add-customer form submission. On validation failure
// the form is re-rendered with the submitted values and the Persian
// error list.
func (h *CustomerHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, RouteCustomersAdd) {
		return
	}

	arg, errs := customerParamsFromForm(r)
	if len(errs) > 0 {
		h.renderPage(w, r, "pages/customer_add", "افزودن مشتری", "add", customerFormData{
			Customer: customerFromParams(0, arg),
			Cities:   model.AllCities(),
		}, errs)
		return
	}

	customer, err := h.queries.CreateCustomer(r.Context(), arg)
	if err != nil {
		slog.Error("failed to create customer", "error", err)
		h.errors.internal(w, r)
		return
	}

	slog.Info("customer created", "category", "customer", "customer_id", customer.ID, "user_id", middleware.GetUserID(r))
	lang := middleware.GetLang(r)
	flashSuccess(w, r, redirectCustomers, fmt.Sprintf(i18n.T(lang, "customer.created"), customer.FullName))
}

// Detail renders a customer page with its transactions and their sum.
func (h *CustomerHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.errors.notFound(w, r)
		return
	}

	customer, err := h.queries.GetCustomerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errors.notFound(w, r)
			return
		}
		slog.Error("failed to load customer", "customer_id", id, "error", err)
		h.errors.internal(w, r)
		return
	}

	transactions, err := h.queries.ListTransactionsByCustomer(r.Context(), id)
	if err != nil {
		slog.Error("failed to list transactions", "customer_id", id, "error", err)
		h.errors.internal(w, r)
		return
	}

	total, err := h.queries.SumTransactionsByCustomer(r.Context(), id)
	if err != nil {
		slog.Error("failed to sum transactions", "customer_id", id, "error", err)
		h.errors.internal(w, r)
		return
	}

	h.renderPage(w, r, "pages/customer_detail", customer.FullName, "", struct {
		Customer     model.Customer
		Transactions []model.Transaction
		Total        float64
	}{customer, transactions, total}, nil)
}

// EditForm renders the edit form pre-filled with the stored customer.
func (h *CustomerHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.errors.notFound(w, r)
		return
	}

	customer, err := h.queries.GetCustomerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errors.notFound(w, r)
			return
		}
		slog.Error("failed to load customer", "customer_id", id, "error", err)
		h.errors.internal(w, r)
		return
	}

	h.renderPage(w, r, "pages/customer_edit", "ویرایش مشتری", "", customerFormData{
		Customer: customer,
		Cities:   model.AllCities(),
	}, nil)
}

// Update handles the edit form submission.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.errors.notFound(w, r)
		return
	}

	if !parseFormOrRedirect(w, r, fmt.Sprintf("/edit/%d", id)) {
		return
	}

	arg, errs := customerParamsFromForm(r)
	if len(errs) > 0 {
		h.renderPage(w, r, "pages/customer_edit", "ویرایش مشتری", "", customerFormData{
			Customer: customerFromParams(id, arg),
			Cities:   model.AllCities(),
		}, errs)
		return
	}

	affected, err := h.queries.UpdateCustomer(r.Context(), id, arg)
	if err != nil {
		slog.Error("failed to update customer", "customer_id", id, "error", err)
		h.errors.internal(w, r)
		return
	}
	if affected == 0 {
		h.errors.notFound(w, r)
		return
	}

	slog.Info("customer updated", "category", "customer", "customer_id", id, "user_id", middleware.GetUserID(r))
	lang := middleware.GetLang(r)
	flashSuccess(w, r, fmt.Sprintf(redirectCustomerID, id), i18n.T(lang, "customer.updated"))
}

// Delete removes a customer and, through the foreign key cascade, its
// transactions. Deleting an unknown ID is not an error.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.errors.notFound(w, r)
		return
	}

	if err := h.queries.DeleteCustomer(r.Context(), id); err != nil {
		slog.Error("failed to delete customer", "customer_id", id, "error", err)
		h.errors.internal(w, r)
		return
	}

	slog.Info("customer deleted", "category", "customer", "customer_id", id, "user_id", middleware.GetUserID(r))
	lang := middleware.GetLang(r)
	flashSuccess(w, r, redirectCustomers, i18n.T(lang, "customer.deleted"))
}

func (h *CustomerHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title, activePage string, data any, errs []string) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:       title,
		Data:        data,
		CurrentUser: middleware.GetUser(r),
		ActivePage:  activePage,
		Lang:        middleware.GetLang(r),
		Errors:      errs,
	})
	if err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
		http.Error(w, i18n.T(middleware.GetLang(r), "error.system"), http.StatusInternalServerError)
	}
}

// customerParamsFromForm validates the customer form and collects all
// Persian error messages rather than stopping at the first.
func customerParamsFromForm(r *http.Request) (store.CustomerParams, []string) {
	var errs []string

	arg := store.CustomerParams{
		FullName: strings.TrimSpace(r.PostFormValue("full_name")),
		Company:  strings.TrimSpace(r.PostFormValue("company")),
		JobTitle: strings.TrimSpace(r.PostFormValue("job_title")),
		Address:  strings.TrimSpace(r.PostFormValue("address")),
		Notes:    strings.TrimSpace(r.PostFormValue("notes")),
		City:     model.CityFromCode(r.PostFormValue("city")).Code(),
	}

	if arg.FullName == "" {
		errs = append(errs, "نام و نام خانوادگی الزامی است")
	}

	if email := r.PostFormValue("email"); strings.TrimSpace(email) != "" {
		normalized, err := util.ValidateEmail(email)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			arg.Email = normalized
		}
	}

	if phone := r.PostFormValue("phone_number"); strings.TrimSpace(phone) != "" {
		normalized, err := util.NormalizePhone(phone)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			arg.PhoneNumber = normalized
		}
	}

	if raw := strings.TrimSpace(r.PostFormValue("sales_count")); raw != "" {
		n, err := strconv.ParseInt(util.ToLatinDigits(raw), 10, 64)
		if err != nil || n < 0 {
			errs = append(errs, "تعداد خرید معتبر نیست")
		} else {
			arg.SalesCount = n
		}
	}

	if raw := strings.TrimSpace(r.PostFormValue("purchase_date")); raw != "" {
		iso, err := util.ParseJalaliToISO(raw)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			arg.PurchaseDate = iso
		}
	}

	return arg, errs
}

// customerFromParams rebuilds a Customer for form re-rendering.
func customerFromParams(id int64, arg store.CustomerParams) model.Customer {
	return model.Customer{
		ID:           id,
		FullName:     arg.FullName,
		Company:      arg.Company,
		Email:        arg.Email,
		PhoneNumber:  arg.PhoneNumber,
		SalesCount:   arg.SalesCount,
		PurchaseDate: arg.PurchaseDate,
		JobTitle:     arg.JobTitle,
		City:         arg.City,
		Address:      arg.Address,
		Notes:        arg.Notes,
	}
}
