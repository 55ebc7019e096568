// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/store"
)

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"line\nbreak", `line\x0abreak`},
		{"tab\there", `tab\x09here`},
		{"del\x7f", `del\x7f`},
		{"ñandú", "ñandú"},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateETag(t *testing.T) {
	a := generateETag([]byte(`{"a":1}`))
	if a != generateETag([]byte(`{"a":1}`)) {
		t.Error("ETag is not deterministic")
	}
	if a == generateETag([]byte(`{"a":2}`)) {
		t.Error("different bodies share an ETag")
	}
	if a[0] != '"' || a[len(a)-1] != '"' {
		t.Errorf("ETag %s is not quoted", a)
	}
}

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , b ,,c ", []string{"a", "b", "c"}},
		{",,", []string{}},
	}
	for _, tt := range tests {
		if got := parseCommaSeparated(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseCommaSeparated(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestRequestFormat(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		contentType string
		want        store.Format
		wantErr     bool
	}{
		{"default", "", "", store.FormatJSON, false},
		{"query wins", "?format=yaml", "application/json", store.FormatYAML, false},
		{"yaml header", "", "application/x-yaml; charset=utf-8", store.FormatYAML, false},
		{"unknown header", "", "text/csv", store.FormatJSON, false},
		{"bad query", "?format=csv", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/import"+tt.query, nil)
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			got, err := requestFormat(r)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("requestFormat() = %q, %v; want %q, err=%v", got, err, tt.want, tt.wantErr)
			}
		})
	}
}

func TestRespondStoreError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound, codeNotFound},
		{"cycle", &recommend.SequelCycleError{Path: []string{"a", "b", "a"}}, http.StatusConflict, codeSequelCycle},
		{"invalid record", fmt.Errorf("%w: title", catalog.ErrInvalidRecord), http.StatusBadRequest, codeValidation},
		{"malformed document", store.ErrMalformedDocument, http.StatusBadRequest, codeValidation},
		{"breaker open", gobreaker.ErrOpenState, http.StatusServiceUnavailable, codeUnavailable},
		{"store closed", store.ErrClosed, http.StatusServiceUnavailable, codeUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, codeTimeout},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, codeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondStoreError(rec, tt.err, "item")
			expectStatus(t, rec, tt.status)
			resp := decode(t, rec, nil)
			if resp.Status != models.StatusError || resp.Error.Code != tt.code {
				t.Errorf("response = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestRespondError_HidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, http.StatusInternalServerError, codeInternal, "internal error", errors.New("secret path /var/lib"))

	if got := rec.Body.String(); strings.Contains(got, "secret") || !strings.Contains(got, "internal error") {
		t.Errorf("body = %s", got)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

