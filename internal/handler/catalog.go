// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rumiland/crm/internal/i18n"
	"github.com/rumiland/crm/internal/middleware"
	"github.com/rumiland/crm/internal/render"
	"github.com/rumiland/crm/internal/store"
	"github.com/rumiland/crm/internal/util"
)

// CatalogHandler handles the product catalog pages.
type CatalogHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	errors   errorRenderer
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(db *sql.DB, renderer *render.Renderer) *CatalogHandler {
	return &CatalogHandler{
		queries:  store.New(db),
		renderer: renderer,
		errors:   errorRenderer{renderer: renderer},
	}
}

// List renders the product catalog, newest first.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.queries.ListProducts(r.Context())
	if err != nil {
		slog.Error("failed to list products", "error", err)
		h.errors.internal(w, r)
		return
	}

	h.renderPage(w, r, "pages/catalog", "کاتالوگ محصولات", products, nil)
}

// AddForm renders the add-product form.
func (h *CatalogHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "pages/product_add", "افزودن محصول", nil, nil)
}

// Add handles the add-product form submission.
func (h *CatalogHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, RouteCatalogAdd) {
		return
	}

	var errs []string

	arg := store.CreateProductParams{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		CreatedAt:   time.Now().UTC(),
	}

	if arg.Name == "" {
		errs = append(errs, "نام محصول الزامی است")
	}

	rawPrice := util.ToLatinDigits(strings.TrimSpace(r.PostFormValue("price")))
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || price < 0 {
		errs = append(errs, "قیمت محصول معتبر نیست")
	} else {
		arg.Price = price
	}

	if raw := util.ToLatinDigits(strings.TrimSpace(r.PostFormValue("stock"))); raw != "" {
		stock, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || stock < 0 {
			errs = append(errs, "موجودی محصول معتبر نیست")
		} else {
			arg.Stock = stock
		}
	}

	if len(errs) > 0 {
		h.renderPage(w, r, "pages/product_add", "افزودن محصول", nil, errs)
		return
	}

	product, err := h.queries.CreateProduct(r.Context(), arg)
	if err != nil {
		slog.Error("failed to create product", "error", err)
		h.errors.internal(w, r)
		return
	}

	slog.Info("product created", "product_id", product.ID, "user_id", middleware.GetUserID(r))
	lang := middleware.GetLang(r)
	flashSuccess(w, r, redirectCatalog, fmt.Sprintf(i18n.T(lang, "product.created"), product.Name))
}

// Delete removes a product from the catalog.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.errors.notFound(w, r)
		return
	}

	if err := h.queries.DeleteProduct(r.Context(), id); err != nil {
		slog.Error("failed to delete product", "product_id", id, "error", err)
		h.errors.internal(w, r)
		return
	}

	slog.Info("product deleted", "product_id", id, "user_id", middleware.GetUserID(r))
	lang := middleware.GetLang(r)
	flashSuccess(w, r, redirectCatalog, i18n.T(lang, "product.deleted"))
}

func (h *CatalogHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any, errs []string) {
	lang := middleware.GetLang(r)
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:       title,
		Data:        data,
		CurrentUser: middleware.GetUser(r),
		ActivePage:  "catalog",
		Lang:        lang,
		Errors:      errs,
	})
	if err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
		http.Error(w, i18n.T(lang, "error.system"), http.StatusInternalServerError)
	}
}
