package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pratik-mahalle/cloudlens/internal/auth"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey ContextKey = "userID"
	// UserEmailKey is the context key for the authenticated user's email
	UserEmailKey ContextKey = "email"
)

// accessTokenCookie mirrors the cookie name the auth handlers set.
const accessTokenCookie = "accessToken"

// Auth returns a middleware that validates JWT access tokens. Tokens
// are accepted from the Authorization header or, for browser clients,
// from the httpOnly access token cookie.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				if cookie, err := r.Cookie(accessTokenCookie); err == nil {
					tokenStr = cookie.Value
				}
			}
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
				return
			}

			claims, err := auth.ParseClaims(tokenStr, jwtSecret)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user ID from the request context
func GetUserID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(UserIDKey).(int64)
	return id, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
