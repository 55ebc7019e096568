// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
)

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", http.StatusOK, `"level":"debug"`},
		{"client error", http.StatusNotFound, `"level":"warn"`},
		{"server error", http.StatusServiceUnavailable, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prev := logging.Logger()
			logging.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
			defer func() {
				logging.SetLogger(prev)
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}()

			r := chi.NewRouter()
			r.Use(RequestID)
			r.Use(AccessLog)
			r.Get("/api/v1/{type}/items", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/movies/items", nil))

			out := buf.String()
			for _, want := range []string{
				tt.wantLevel,
				`"route":"/api/v1/{type}/items"`,
				`"path":"/api/v1/movies/items"`,
				`"request_id":`,
				`"message":"http request"`,
			} {
				if !strings.Contains(out, want) {
					t.Errorf("log missing %s: %s", want, out)
				}
			}
		})
	}
}
