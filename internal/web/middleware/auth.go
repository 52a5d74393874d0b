// Package middleware holds HTTP middleware for caller identity and
// admin authentication.
package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/aquaevents/eventcal/internal/config"
	"github.com/aquaevents/eventcal/internal/domain"
)

type contextKey string

const callerKey contextKey = "caller"

// WithCaller stores the caller on the request context.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom returns the caller set by Identity or AdminAuth, or the
// anonymous caller when none was set.
func CallerFrom(ctx context.Context) domain.Caller {
	if caller, ok := ctx.Value(callerKey).(domain.Caller); ok {
		return caller
	}
	return domain.Anonymous
}

// Identity reads the organizer identity header into the request caller.
// It never rejects: an absent header just yields the anonymous caller.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := domain.Caller{OrganizerID: r.Header.Get("X-Organizer-ID")}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// AdminAuth returns middleware that validates the X-API-Key header
// against the configured admin keys and marks the caller privileged.
// If RequireAdminKey is false, all requests pass through as privileged.
// If it is true but no keys are configured, all requests are rejected.
func AdminAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reviewer := r.Header.Get("X-Reviewer-ID")
			if reviewer == "" {
				reviewer = "admin"
			}

			if !cfg.RequireAdminKey {
				ctx := WithCaller(r.Context(), domain.Admin(reviewer))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				slog.Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"missing API key","code":"AUTH_MISSING_KEY"}`, http.StatusUnauthorized)
				return
			}

			if !isValidAPIKey(apiKey, cfg.AdminAPIKeys) {
				slog.Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"invalid API key","code":"AUTH_INVALID_KEY"}`, http.StatusForbidden)
				return
			}

			ctx := WithCaller(r.Context(), domain.Admin(reviewer))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isValidAPIKey checks the provided key against every configured key.
// The comparison time is constant regardless of which key matches (or
// none), to prevent timing attacks.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
