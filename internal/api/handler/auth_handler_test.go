package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"easytap/internal/config"
)

func authTestConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Auth: config.AuthConfig{Enabled: true, JWTSecret: "test-secret"},
		},
	}
}

func TestGenerateBearerToken(t *testing.T) {
	t.Run("issues a signed token with subject and role", func(t *testing.T) {
		h := NewAuthHandler(authTestConfig(), testLogger)
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"subject":"admin-1","role":"admin"}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, strings.HasPrefix(body["token"], "Bearer "))

		raw := strings.TrimPrefix(body["token"], "Bearer ")
		token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		assert.True(t, token.Valid)

		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "admin-1", claims["sub"])
		assert.Equal(t, "admin", claims["role"])
	})

	t.Run("missing subject is 400", func(t *testing.T) {
		h := NewAuthHandler(authTestConfig(), testLogger)
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"role":"admin"}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown role is 400", func(t *testing.T) {
		h := NewAuthHandler(authTestConfig(), testLogger)
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"subject":"u","role":"root"}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
