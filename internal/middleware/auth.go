package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"dragons-den/internal/auth"
	"dragons-den/internal/shared/cookies"
	"dragons-den/internal/shared/errors"
	"dragons-den/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

// JWTMiddleware authenticates with an Authorization bearer token, falling
// back to the auth cookie set for browser clients.
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		token, source := tokenFromRequest(r)
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("Authentication required"))
			return
		}

		claims, err := auth.ValidateJWT(token)
		if err != nil {
			logger.Debug("Token rejected", "source", source, "error", err)
			response.Error(w, r, logger, errors.Unauthorized("Invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		logger.Debug("JWT authentication successful",
			"user_id", claims.UserID,
			"source", source)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken returns the Authorization bearer token, or "".
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func tokenFromRequest(r *http.Request) (string, string) {
	if token := BearerToken(r); token != "" {
		return token, "header"
	}
	return cookies.TokenFromRequest(r), "cookie"
}

func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
