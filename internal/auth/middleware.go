package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the values we store.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces authentication on protected routes.
//
// It reads the JWT from the Authorization header ("Bearer <token>"),
// validates it, and stores the userID in the request context. Missing,
// invalid, and expired tokens all yield 401, but expired tokens get their
// own message so clients know to re-authenticate rather than retry.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				msg := `{"error":"unauthorized","message":"valid authentication required"}`
				if errors.Is(err, ErrTokenExpired) {
					msg = `{"error":"unauthorized","message":"token expired"}`
				}
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdminKey gates operator-only routes behind a shared key passed in
// the X-Admin-Key header. The comparison is constant-time. Routes guarded
// by this middleware must not be registered at all when no key is
// configured — callers are expected to check for an empty key first.
func RequireAdminKey(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-Admin-Key")
			if adminKey == "" ||
				subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
				http.Error(w, `{"error":"unauthorized","message":"valid admin key required"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) on anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the given userID. Used by handler
// tests to simulate an authenticated request without running the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// extractUserID reads the bearer token from the Authorization header and
// validates it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrTokenInvalid
	}
	return tokens.Validate(strings.TrimPrefix(header, prefix))
}
