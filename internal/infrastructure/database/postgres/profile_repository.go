package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"easytap/internal/domain/identity"
	"easytap/internal/pkg/apperrors"
)

type ProfileRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewProfileRepository(db DBPool, logger *slog.Logger) *ProfileRepository {
	return &ProfileRepository{db: db, logger: logger.With("component", "ProfileRepository")}
}

var _ identity.Repository = (*ProfileRepository)(nil)

func (r *ProfileRepository) GetProfileByID(ctx context.Context, id string) (*identity.Profile, error) {
	query := `
        SELECT id, email, first_name, last_name, mobile_number, role, status, created_at
        FROM profiles
        WHERE id = $1`

	var p identity.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.MobileNumber, &p.Role, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Profile not found", "profile_id", id)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get profile", "profile_id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &p, nil
}
