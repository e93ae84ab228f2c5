// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the server-rendered
// UI: authentication, customers, transactions, the product catalog,
// user administration and the Excel export.
package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the customer list (the home page).
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteHealth is the health check route.
	RouteHealth = "/health"

	// RouteCustomersAdd is the customer add form route.
	RouteCustomersAdd = "/add"
	// RouteCustomersID is the customer detail route pattern.
	RouteCustomersID = "/customer" + RouteParamID
	// RouteCustomersIDEdit is the customer edit route pattern.
	RouteCustomersIDEdit = "/edit" + RouteParamID
	// RouteCustomersIDDelete is the customer delete route pattern.
	RouteCustomersIDDelete = "/delete" + RouteParamID
	// RouteCustomersIDTransaction is the transaction add route pattern.
	RouteCustomersIDTransaction = RouteCustomersID + "/add-transaction"
	// RouteExportCustomers is the Excel export route.
	RouteExportCustomers = "/export/customers"

	// RouteCatalog is the product catalog route.
	RouteCatalog = "/catalog"
	// RouteCatalogAdd is the product add form route.
	RouteCatalogAdd = RouteCatalog + "/add"
	// RouteCatalogIDDelete is the product delete route pattern.
	RouteCatalogIDDelete = RouteCatalog + "/delete" + RouteParamID

	// RouteUsers is the user administration route.
	RouteUsers = "/users"
	// RouteUsersAdd is the user add form route.
	RouteUsersAdd = RouteUsers + "/add"
	// RouteUsersIDDelete is the user delete route pattern.
	RouteUsersIDDelete = RouteUsers + "/delete" + RouteParamID
)

// Redirect targets. POST handlers always answer with a 303 redirect so
// a refresh never resubmits the form.
const (
	redirectLogin     = RouteLogin
	redirectCustomers = RouteRoot
	redirectCatalog   = RouteCatalog
	redirectUsers     = RouteUsers

	redirectCustomerID = "/customer/%d"
)
