package http

import (
	"errors"
	"net/http"
	"strings"

	"peersupport-backend/internal/security"
)

var (
	errMissingToken      = errors.New("authorization token is not provided")
	errMalformedAuthHead = errors.New("authorization header must use the Bearer scheme")
)

// publicRoutes are served without a token.
var publicRoutes = map[string]bool{
	"/healthz": true,
}

type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler validates the Bearer token and injects the authenticated user's
// ID into the request context. The token's user ID always wins over
// anything the client might claim elsewhere in the request.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicRoutes[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
	})
}

func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}

	if len(authHeader) <= 7 || !strings.EqualFold(authHeader[0:7], "Bearer ") {
		return "", errMalformedAuthHead
	}
	return authHeader[7:], nil
}
