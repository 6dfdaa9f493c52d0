// Package middleware provides HTTP middleware for the gateway's local
// API.
package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/compat"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

// Logging returns middleware that logs request details.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			agent := compat.FromContext(r.Context())
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote", r.RemoteAddr),
				slog.String("agent", agent.Profile),
			)
		})
	}
}

// Recovery returns middleware that recovers from panics, logging the
// stack and answering 500.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())),
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(wrapped(w), r)
		})
	}
}

// Agent returns middleware that negotiates the Shop-Agent header. The
// parsed declaration goes into the request context; requests for an API
// version newer than the gateway's are rejected.
func Agent(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(compat.HeaderName)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			agent, err := compat.ParseShopAgent(header)
			if err != nil {
				rejectAgent(w, model.NewValidationError(compat.HeaderName, err.Error()))
				return
			}
			if err := compat.CheckVersion(agent.Version); err != nil {
				logger.Warn("rejected agent version",
					slog.String("profile", agent.Profile),
					slog.String("version", agent.Version),
				)
				var apiErr *model.APIError
				if !errors.As(err, &apiErr) {
					apiErr = model.NewInternalError(err)
				}
				rejectAgent(w, apiErr)
				return
			}

			next.ServeHTTP(w, r.WithContext(compat.NewContext(r.Context(), agent)))
		})
	}
}

func rejectAgent(w http.ResponseWriter, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	json.NewEncoder(w).Encode(map[string]any{"error": apiErr})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// wrapped returns a responseWriter, reusing w if it is already one.
func wrapped(w http.ResponseWriter) http.ResponseWriter {
	if _, ok := w.(*responseWriter); ok {
		return w
	}
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

// Chain combines middleware; the first listed wraps the rest.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
