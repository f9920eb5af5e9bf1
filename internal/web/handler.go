// Copyright 2026 Dominik Schlosser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dominikschlosser/healthpass/internal/convert"
	"github.com/dominikschlosser/healthpass/internal/failure"
	"github.com/dominikschlosser/healthpass/internal/metrics"
	"github.com/dominikschlosser/healthpass/internal/output"
	"github.com/dominikschlosser/healthpass/internal/pkpass"
)

const maxRequestBody = 1 << 20 // 1MB

//go:embed static
var staticFiles embed.FS

// NewServer wraps handler in an http.Server listening on addr.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// ListenAndServe serves handler on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := NewServer(addr, handler)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Printf("[Web] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// NewRouter creates the HTTP handler: the pass download endpoint, a decode
// API for the landing page, health and metrics, and the static pages.
func NewRouter(conv *convert.Converter, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/qr-data", handleQRData(conv))
	r.Post("/api/decode", handleDecode(conv))
	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	sub, _ := fs.Sub(staticFiles, "static")
	r.Get("/privacy", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, sub, "privacy.html")
	})
	r.Handle("/*", http.FileServer(http.FS(sub)))

	return r
}

func handleQRData(conv *convert.Converter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := r.URL.Query().Get("d")
		if d == "" {
			writeError(w, http.StatusBadRequest, "missing d parameter")
			return
		}

		archive, err := conv.Convert(r.Context(), d)
		if err != nil {
			writeFailure(w, err)
			return
		}

		w.Header().Set("Content-Type", pkpass.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+pkpass.FileName+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(archive)
	}
}

type decodeRequest struct {
	Input string `json:"input"`
}

func handleDecode(conv *convert.Converter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

		var req decodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Input == "" {
			writeError(w, http.StatusBadRequest, "input is required")
			return
		}

		result, err := Decode(conv, req.Input)
		if err != nil {
			log.Printf("[Web] decode failed: %v", err)
			writeFailure(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := output.EncodeJSON(w, result, false); err != nil {
			log.Printf("[Web] writing decode response: %v", err)
		}
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeFailure reports only the category label of err.
func writeFailure(w http.ResponseWriter, err error) {
	cat := failure.CategoryOf(err)
	status := http.StatusUnprocessableEntity
	switch cat {
	case failure.Packaging, failure.Internal:
		status = http.StatusInternalServerError
	}
	writeError(w, status, cat.Label())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
