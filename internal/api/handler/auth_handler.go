package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"easytap/internal/api/handler/dto"
	"easytap/internal/config"
	"easytap/internal/domain/identity"
	"easytap/internal/pkg/apperrors"
)

type AuthHandler struct {
	cfg    config.Config
	logger *slog.Logger
}

func NewAuthHandler(cfg config.Config, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
	}
}

// GenerateBearerToken issues a signed JWT for the given subject and role.
//
// @Summary Generate a JWT bearer token
// @Description Issues a bearer token carrying the subject and role claims the API authorizes against.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "subject and role"
// @Success 200 {object} map[string]string "Token successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/token [post]
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	h.logger.Info("Generating bearer token")
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Error("failed to decode request body", "error", err)
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if req.Subject == "" {
		respondError(w, fmt.Errorf("%w: subject is required", apperrors.ErrInvalidArgument))
		return
	}
	role := identity.Role(req.Role)
	if role != identity.RoleAdmin && role != identity.RoleCustomer {
		respondError(w, fmt.Errorf("%w: role must be admin or customer", apperrors.ErrInvalidArgument))
		return
	}

	claims := jwt.MapClaims{
		"sub":  req.Subject,
		"role": string(role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(h.cfg.Server.Auth.JWTSecret))
	if err != nil {
		h.logger.Error("failed to sign token", "error", err)
		respondError(w, fmt.Errorf("%w: failed to sign token", apperrors.ErrInternalServer))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": fmt.Sprintf("Bearer %s", tokenString)})
}
