// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_Generates(t *testing.T) {
	var gotID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if gotID == "" {
		t.Fatal("no request ID in context")
	}
	if _, err := uuid.Parse(gotID); err != nil {
		t.Errorf("request ID %q is not a UUID: %v", gotID, err)
	}
	if hdr := rec.Header().Get(RequestIDHeader); hdr != gotID {
		t.Errorf("header = %q, context = %q", hdr, gotID)
	}
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	var gotID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "proxy-assigned-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != "proxy-assigned-id" {
		t.Errorf("request ID = %q, want proxy-assigned-id", gotID)
	}
}
