// Package server exposes the preview engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lepinkainen/link-forge/internal/engine"
	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/urlutils"
)

// Server wraps the engine with an HTTP API.
type Server struct {
	engine *engine.Engine
	router chi.Router
}

// New creates the server and mounts its routes.
func New(e *engine.Engine) *Server {
	s := &Server{engine: e}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/api/metadata", s.handleMetadata)
	r.Get("/health", s.handleHealth)

	s.router = r
	return s
}

// Handler returns the mounted router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "invalid_url", "missing url query parameter")
		return
	}

	record, err := s.engine.Preview(r.Context(), rawURL)
	if err != nil {
		status, code, message := classifyError(err)
		slog.Warn("preview failed", "url", rawURL, "status", status, "error", err)
		writeError(w, status, code, message)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// classifyError maps pipeline errors onto HTTP statuses: invalid input is
// the client's fault, upstream fetch failures are a bad gateway, upstream
// deadline hits are a gateway timeout.
func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, urlutils.ErrInvalidURL):
		return http.StatusBadRequest, "invalid_url", "the url parameter is not a valid http(s) URL"
	case fetch.IsTimeout(err):
		return http.StatusGatewayTimeout, "upstream_timeout", "timed out fetching the target URL"
	case fetch.IsUpstreamError(err):
		return http.StatusBadGateway, "upstream_error", "failed to fetch the target URL"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// requestLogger logs one line per request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
