package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"easytap/internal/config"
	"easytap/internal/domain/identity"
)

// AuthMiddleware validates the bearer token and attaches the caller identity
// (subject and role claims) to the request context. When auth is disabled in
// configuration every request runs as an admin, which is only acceptable for
// local development.
func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := identity.WithCaller(r.Context(), identity.Caller{ID: "local-dev", Role: identity.RoleAdmin})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := callerFromJWT(r, cfg.JWTSecret, logger)
			if !ok {
				http.Error(w, `{"error":{"message":"Unauthorized"}}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithCaller(r.Context(), caller)))
		})
	}
}

func callerFromJWT(r *http.Request, secret string, logger *slog.Logger) (identity.Caller, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.Warn("AuthMiddleware: Missing Authorization header")
		return identity.Caller{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		logger.Warn("AuthMiddleware: Invalid Authorization header format")
		return identity.Caller{}, false
	}
	tokenString := parts[1]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			logger.Warn("AuthMiddleware: Unexpected signing method")
			return nil, http.ErrAbortHandler
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		logger.Warn("AuthMiddleware: Invalid token", "error", err)
		return identity.Caller{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		logger.Warn("AuthMiddleware: Unexpected claims type")
		return identity.Caller{}, false
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		logger.Warn("AuthMiddleware: Token missing subject claim")
		return identity.Caller{}, false
	}

	role, _ := claims["role"].(string)
	caller := identity.Caller{ID: sub, Role: identity.Role(role)}
	if caller.Role != identity.RoleAdmin && caller.Role != identity.RoleCustomer {
		caller.Role = identity.RoleCustomer
	}

	return caller, true
}
