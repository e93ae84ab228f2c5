// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/store"
	"github.com/rumiland/crm/internal/testutil"
)

func setupQueries(t *testing.T) *store.Queries {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return store.New(db)
}

func createUser(t *testing.T, q *store.Queries, username, role string) model.User {
	t.Helper()
	u, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		FullName:     "کاربر " + username,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	q := setupQueries(t)
	createUser(t, q, "alice", model.RoleUser)

	_, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Username:     "alice",
		PasswordHash: "x",
		FullName:     "دوباره",
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("duplicate username accepted")
	}

	var conflict *store.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error type = %T, want *store.ConflictError", err)
	}
	if conflict.Field != "username" {
		t.Errorf("Field = %q, want username", conflict.Field)
	}
	if !store.IsConflict(err) {
		t.Error("IsConflict returned false for a ConflictError")
	}
}

func TestGetUserByUsername_Exact(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()
	createUser(t, q, "alice", model.RoleAdmin)

	u, err := q.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", u.Role)
	}

	// Lookup is exact, not case-folded.
	if _, err := q.GetUserByUsername(ctx, "Alice"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("case-variant lookup: got %v, want sql.ErrNoRows", err)
	}
}

func TestListUsers_NewestFirst(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()

	createUser(t, q, "first", model.RoleUser)
	createUser(t, q, "second", model.RoleUser)

	users, err := q.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d, want 2", len(users))
	}
	if users[0].Username != "second" {
		t.Errorf("first listed = %q, want second (newest first)", users[0].Username)
	}

	n, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if n != 2 {
		t.Errorf("CountUsers = %d, want 2", n)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()
	u := createUser(t, q, "alice", model.RoleUser)

	err := q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		ID:           u.ID,
		PasswordHash: "new-hash",
	})
	if err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, err := q.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash = %q, want new-hash", got.PasswordHash)
	}
}

func sampleCustomer() store.CustomerParams {
	return store.CustomerParams{
		FullName:     "علی رضایی",
		Company:      "شرکت آبیدر",
		Email:        "ali@example.com",
		PhoneNumber:  "09123456789",
		SalesCount:   3,
		PurchaseDate: "2024-03-20",
		JobTitle:     "مدیر خرید",
		City:         string(model.CityZanjan),
		Address:      "زنجان، خیابان سعدی",
		Notes:        "مشتری قدیمی",
	}
}

func TestCustomerCRUD(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()

	c, err := q.CreateCustomer(ctx, sampleCustomer())
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("customer id not assigned")
	}
	if c.FullName != "علی رضایی" {
		t.Errorf("FullName = %q", c.FullName)
	}

	got, err := q.GetCustomerByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCustomerByID: %v", err)
	}
	if got.PhoneNumber != "09123456789" {
		t.Errorf("PhoneNumber = %q", got.PhoneNumber)
	}

	params := sampleCustomer()
	params.FullName = "علی محمدی"
	params.SalesCount = 5
	n, err := q.UpdateCustomer(ctx, c.ID, params)
	if err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}
	if n != 1 {
		t.Fatalf("UpdateCustomer affected %d rows, want 1", n)
	}

	got, err = q.GetCustomerByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCustomerByID after update: %v", err)
	}
	if got.FullName != "علی محمدی" || got.SalesCount != 5 {
		t.Errorf("update not applied: %+v", got)
	}

	// Updating a missing row affects nothing.
	n, err = q.UpdateCustomer(ctx, 9999, params)
	if err != nil {
		t.Fatalf("UpdateCustomer missing: %v", err)
	}
	if n != 0 {
		t.Errorf("UpdateCustomer on missing row affected %d rows", n)
	}

	if err := q.DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	if _, err := q.GetCustomerByID(ctx, c.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("after delete: got %v, want sql.ErrNoRows", err)
	}
}

func TestDeleteCustomer_CascadesTransactions(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()

	c, err := q.CreateCustomer(ctx, sampleCustomer())
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	_, err = q.CreateTransaction(ctx, store.CreateTransactionParams{
		CustomerID:      c.ID,
		Amount:          2500000,
		Type:            model.TransactionSale,
		Description:     "فروش نقدی",
		TransactionDate: "2024-04-01",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if err := q.DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}

	txs, err := q.ListTransactionsByCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListTransactionsByCustomer: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("%d transactions survived customer delete", len(txs))
	}
}

func TestTransactions_ListAndSum(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()

	c, err := q.CreateCustomer(ctx, sampleCustomer())
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	for _, tx := range []store.CreateTransactionParams{
		{CustomerID: c.ID, Amount: 1000, Type: model.TransactionSale, TransactionDate: "2024-01-10"},
		{CustomerID: c.ID, Amount: 400, Type: model.TransactionPayment, TransactionDate: "2024-02-15"},
		{CustomerID: c.ID, Amount: 100, Type: model.TransactionRefund, TransactionDate: "2024-03-01"},
	} {
		if _, err := q.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	txs, err := q.ListTransactionsByCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListTransactionsByCustomer: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("len = %d, want 3", len(txs))
	}
	if txs[0].TransactionDate != "2024-03-01" {
		t.Errorf("first listed date = %q, want newest", txs[0].TransactionDate)
	}

	sum, err := q.SumTransactionsByCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("SumTransactionsByCustomer: %v", err)
	}
	if sum != 1500 {
		t.Errorf("sum = %v, want 1500", sum)
	}
}

func TestProducts(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()

	p, err := q.CreateProduct(ctx, store.CreateProductParams{
		Name:        "چای سبز",
		Description: "بسته ۵۰۰ گرمی",
		Price:       180000,
		Stock:       42,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.ImageURL.Valid {
		t.Error("new product should have no image")
	}

	got, err := q.GetProductByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if got.Name != "چای سبز" || got.Stock != 42 {
		t.Errorf("unexpected product: %+v", got)
	}

	list, err := q.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}

	if err := q.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := q.GetProductByID(ctx, p.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("after delete: got %v, want sql.ErrNoRows", err)
	}
}

func TestEvents(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := q.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelWarning,
		Category:  model.EventCategoryAuth,
		Message:   "failed login",
		IP:        sql.NullString{String: "203.0.113.9", Valid: true},
		CreatedAt: now.Add(-48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	e, err := q.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryUser,
		Message:   "user created",
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if e.Metadata != "{}" {
		t.Errorf("empty metadata stored as %q, want {}", e.Metadata)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Message != "user created" {
		t.Errorf("first listed = %q, want newest", events[0].Message)
	}

	n, err := q.DeleteEventsBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d events, want 1", n)
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()
	logger := testutil.TestLoggerSilent()

	if err := store.Seed(ctx, db, logger); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	q := store.New(db)
	admin, err := q.GetUserByUsername(ctx, store.DefaultAdminUsername)
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if admin.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", admin.Role)
	}
	if admin.FullName != store.DefaultAdminFullName {
		t.Errorf("FullName = %q, want %q", admin.FullName, store.DefaultAdminFullName)
	}

	// Second run is a no-op.
	if err := store.Seed(ctx, db, logger); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	n, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if n != 1 {
		t.Errorf("CountUsers = %d after reseed, want 1", n)
	}
}
