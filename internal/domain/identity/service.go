package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"easytap/internal/pkg/apperrors"
)

type Service interface {
	// RequireCaller returns the caller from the context or ErrUnauthorized.
	RequireCaller(ctx context.Context) (Caller, error)

	// RequireAdmin returns the caller if it carries the admin role.
	RequireAdmin(ctx context.Context) (Caller, error)

	// GetCustomer fetches a profile and verifies it has the customer role.
	GetCustomer(ctx context.Context, profileID string) (*Profile, error)
}

type serviceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(r Repository, logger *slog.Logger) Service {
	return &serviceImpl{repo: r, logger: logger.With("component", "IdentityService")}
}

func (s *serviceImpl) RequireCaller(ctx context.Context) (Caller, error) {
	caller, ok := CallerFrom(ctx)
	if !ok {
		s.logger.WarnContext(ctx, "No authenticated caller on request context")
		return Caller{}, apperrors.ErrUnauthorized
	}
	return caller, nil
}

func (s *serviceImpl) RequireAdmin(ctx context.Context) (Caller, error) {
	caller, err := s.RequireCaller(ctx)
	if err != nil {
		return Caller{}, err
	}
	if !caller.IsAdmin() {
		s.logger.WarnContext(ctx, "Caller lacks admin role", "caller_id", caller.ID, "role", caller.Role)
		return Caller{}, fmt.Errorf("%w: admin role required", apperrors.ErrForbidden)
	}
	return caller, nil
}

func (s *serviceImpl) GetCustomer(ctx context.Context, profileID string) (*Profile, error) {
	if profileID == "" {
		return nil, fmt.Errorf("%w: customer id is required", apperrors.ErrValidation)
	}

	profile, err := s.repo.GetProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer not found", apperrors.ErrNotFound)
		}
		s.logger.ErrorContext(ctx, "Failed to fetch profile", "profile_id", profileID, "error", err)
		return nil, fmt.Errorf("%w: failed to fetch profile: %v", apperrors.ErrInternalServer, err)
	}

	if profile.Role != RoleCustomer {
		return nil, fmt.Errorf("%w: selected user is not a customer", apperrors.ErrValidation)
	}
	return profile, nil
}
