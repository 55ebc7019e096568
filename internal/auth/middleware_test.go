// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRequireBearer(t *testing.T) {
	manager, err := NewJWTManager(testSecret, "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := manager.GenerateToken("curator")
	if err != nil {
		t.Fatal(err)
	}

	var rejected error
	onUnauthorized := func(w http.ResponseWriter, _ *http.Request, err error) {
		rejected = err
		w.WriteHeader(http.StatusUnauthorized)
	}

	var subject string
	handler := RequireBearer(manager, onUnauthorized)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			subject = claims.Subject
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantErr    error
	}{
		{"valid token", "Bearer " + token, http.StatusNoContent, nil},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent, nil},
		{"missing header", "", http.StatusUnauthorized, ErrMissingToken},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ErrMissingToken},
		{"empty token", "Bearer   ", http.StatusUnauthorized, ErrMissingToken},
		{"bad token", "Bearer abc.def.ghi", http.StatusUnauthorized, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejected, subject = nil, ""
			req := httptest.NewRequest(http.MethodPut, "/api/v1/movies/items/jp1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantErr != nil && !errors.Is(rejected, tt.wantErr) {
				t.Errorf("rejection error = %v, want %v", rejected, tt.wantErr)
			}
			if tt.wantErr == nil && subject != "curator" {
				t.Errorf("claims subject = %q, want curator", subject)
			}
		})
	}
}

func TestRequireBearer_NilManagerAdmitsAll(t *testing.T) {
	called := false
	handler := RequireBearer(nil, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/", nil))
	if !called {
		t.Error("handler should run when auth is disabled")
	}
}

func TestRequireBearer_DefaultUnauthorized(t *testing.T) {
	manager, _ := NewJWTManager(testSecret, "", time.Hour)
	handler := RequireBearer(manager, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
