package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	// InspectorKey holds the authenticated inspector id
	InspectorKey contextKey = "inspector"
)

// APIKeyAuth validates the key from the Authorization header against the
// configured inspector -> key map. Health and metrics stay open.
func APIKeyAuth(validKeys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// "Bearer <key>" and bare "<key>" both accepted
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			// constant-time compare against every configured key
			var inspector string
			for ins, key := range validKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					inspector = ins
					break
				}
			}
			if inspector == "" {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), InspectorKey, inspector)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetInspectorFromContext extracts the authenticated inspector id
func GetInspectorFromContext(ctx context.Context) string {
	if ins, ok := ctx.Value(InspectorKey).(string); ok {
		return ins
	}
	return ""
}

// RequireInspectorMatch rejects requests whose URL inspector does not match
// the authenticated one. param extracts the inspector segment from the
// request path; it runs before routing, so chi URL params are not available.
func RequireInspectorMatch(param func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authed := GetInspectorFromContext(r.Context())
			if authed != "" && param(r) != authed {
				http.Error(w, "inspector mismatch", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
