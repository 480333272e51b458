package logging

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// statusLevel maps an HTTP status to the level it is logged at.
func statusLevel(status int, ok slog.Level) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return ok
	}
}

// RequestLogger is middleware that logs HTTP requests.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip noisy paths
		if isAsset(r.URL.Path) || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		slog.Log(r.Context(), statusLevel(rw.status, slog.LevelInfo), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		)
	})
}

// isAsset reports whether path is a static asset rather than a page.
func isAsset(path string) bool {
	for _, ext := range []string{".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".woff", ".woff2"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Transport is an http.RoundTripper that logs outgoing API calls.
type Transport struct {
	Base http.RoundTripper
}

// NewTransport wraps base, falling back to http.DefaultTransport.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	return &Transport{Base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(r)
	if err != nil {
		slog.Log(r.Context(), slog.LevelError, "api request failed",
			"method", r.Method,
			"url", r.URL.Redacted(),
			"duration", time.Since(start).String(),
			"error", err,
		)
		return nil, err
	}

	slog.Log(r.Context(), statusLevel(resp.StatusCode, slog.LevelDebug), "api request",
		"method", r.Method,
		"url", r.URL.Redacted(),
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)
	return resp, nil
}
