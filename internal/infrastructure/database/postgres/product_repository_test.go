package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"easytap/internal/domain/product"
	"easytap/internal/pkg/apperrors"
)

var productColumnNames = []string{
	"id", "name", "description", "interest_rate", "duration_days", "processing_fee",
	"penalty_rate", "is_active", "created_at", "updated_at",
}

func setupProductRepo(t *testing.T) (context.Context, *ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewProductRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func productRow(p *product.LoanProduct) *pgxmock.Rows {
	return pgxmock.NewRows(productColumnNames).AddRow(
		p.ID, p.Name, p.Description, p.InterestRate, p.DurationDays,
		p.ProcessingFee, p.PenaltyRate, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
}

func sampleDBProduct() *product.LoanProduct {
	now := time.Now()
	return &product.LoanProduct{
		ID:           1,
		Name:         "Biashara Boost",
		Description:  "Working capital",
		InterestRate: 10,
		DurationDays: 30,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestProductRepositoryCreateProduct(t *testing.T) {
	ctx, repo, mockPool := setupProductRepo(t)
	defer mockPool.Close()

	insertSQL := `
        INSERT INTO loan_products (name, description, interest_rate, duration_days,
            processing_fee, penalty_rate, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING ` + productColumns

	p := sampleDBProduct()
	mockPool.ExpectQuery(regexp.QuoteMeta(insertSQL)).
		WithArgs(p.Name, p.Description, p.InterestRate, p.DurationDays,
			p.ProcessingFee, p.PenaltyRate, p.IsActive).
		WillReturnRows(productRow(p))

	created, err := repo.CreateProduct(ctx, p)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestProductRepositoryGetProductByID(t *testing.T) {
	ctx, repo, mockPool := setupProductRepo(t)
	defer mockPool.Close()

	query := `SELECT ` + productColumns + ` FROM loan_products WHERE id = $1`

	t.Run("found", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(int64(1)).
			WillReturnRows(productRow(sampleDBProduct()))

		p, err := repo.GetProductByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "Biashara Boost", p.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(int64(99)).
			WillReturnRows(pgxmock.NewRows(productColumnNames))

		_, err := repo.GetProductByID(ctx, 99)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestProductRepositoryListProducts(t *testing.T) {
	ctx, repo, mockPool := setupProductRepo(t)
	defer mockPool.Close()

	t.Run("all products", func(t *testing.T) {
		query := `SELECT ` + productColumns + ` FROM loan_products ORDER BY created_at ASC`
		mockPool.ExpectQuery(regexp.QuoteMeta(query)).
			WillReturnRows(productRow(sampleDBProduct()))

		products, err := repo.ListProducts(ctx, false)
		assert.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("active only", func(t *testing.T) {
		query := `SELECT ` + productColumns + ` FROM loan_products WHERE is_active = TRUE ORDER BY created_at ASC`
		mockPool.ExpectQuery(regexp.QuoteMeta(query)).
			WillReturnRows(pgxmock.NewRows(productColumnNames))

		products, err := repo.ListProducts(ctx, true)
		assert.NoError(t, err)
		assert.Empty(t, products)
	})

	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestProductRepositorySetProductActive(t *testing.T) {
	ctx, repo, mockPool := setupProductRepo(t)
	defer mockPool.Close()

	updateSQL := `UPDATE loan_products SET is_active = $1, updated_at = NOW() WHERE id = $2`

	t.Run("successful update", func(t *testing.T) {
		mockPool.ExpectExec(regexp.QuoteMeta(updateSQL)).
			WithArgs(false, int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.SetProductActive(ctx, 1, false))
	})

	t.Run("missing product", func(t *testing.T) {
		mockPool.ExpectExec(regexp.QuoteMeta(updateSQL)).
			WithArgs(true, int64(99)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.SetProductActive(ctx, 99, true), apperrors.ErrNotFound)
	})

	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
