package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"easytap/internal/domain/product"
	"easytap/internal/infrastructure/monitoring"
	"easytap/internal/pkg/apperrors"
)

const productColumns = `
    id, name, description, interest_rate, duration_days, processing_fee,
    penalty_rate, is_active, created_at, updated_at`

type ProductRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewProductRepository(db DBPool, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{db: db, logger: logger.With("component", "ProductRepository")}
}

var _ product.Repository = (*ProductRepository)(nil)

func (r *ProductRepository) CreateProduct(ctx context.Context, p *product.LoanProduct) (*product.LoanProduct, error) {
	sql := `
        INSERT INTO loan_products (name, description, interest_rate, duration_days,
            processing_fee, penalty_rate, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING ` + productColumns

	var created product.LoanProduct
	err := r.db.QueryRow(ctx, sql,
		p.Name, p.Description, p.InterestRate, p.DurationDays,
		p.ProcessingFee, p.PenaltyRate, p.IsActive,
	).Scan(productFields(&created)...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan product", "name", p.Name, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan product created in DB", "product_id", created.ID, "name", created.Name)
	return &created, nil
}

func (r *ProductRepository) GetProductByID(ctx context.Context, productID int64) (*product.LoanProduct, error) {
	query := `SELECT ` + productColumns + ` FROM loan_products WHERE id = $1`

	status := "success"
	startTime := time.Now()

	var p product.LoanProduct
	err := r.db.QueryRow(ctx, query, productID).Scan(productFields(&p)...)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetProductByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan product not found", "product_id", productID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan product", "product_id", productID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &p, nil
}

func (r *ProductRepository) ListProducts(ctx context.Context, activeOnly bool) ([]product.LoanProduct, error) {
	query := `SELECT ` + productColumns + ` FROM loan_products`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loan products", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	products := make([]product.LoanProduct, 0)
	for rows.Next() {
		var p product.LoanProduct
		if err := rows.Scan(productFields(&p)...); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan product row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan product rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return products, nil
}

func (r *ProductRepository) SetProductActive(ctx context.Context, productID int64, active bool) error {
	sql := `UPDATE loan_products SET is_active = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, sql, active, productID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan product active flag", "product_id", productID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Loan product not found for activation update", "product_id", productID)
		return apperrors.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Loan product active flag updated", "product_id", productID, "is_active", active)
	return nil
}

func productFields(p *product.LoanProduct) []any {
	return []any{
		&p.ID, &p.Name, &p.Description, &p.InterestRate, &p.DurationDays,
		&p.ProcessingFee, &p.PenaltyRate, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	}
}
