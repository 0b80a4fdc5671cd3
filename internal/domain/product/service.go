package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"easytap/internal/pkg/apperrors"
)

type ProductService interface {
	CreateProduct(ctx context.Context, name, description string, interestRate float64, durationDays int, processingFee, penaltyRate float64) (*LoanProduct, error)

	GetProduct(ctx context.Context, productID int64) (*LoanProduct, error)

	// GetActiveProduct returns the product only if it is currently offered.
	GetActiveProduct(ctx context.Context, productID int64) (*LoanProduct, error)

	ListProducts(ctx context.Context, activeOnly bool) ([]LoanProduct, error)

	SetProductActive(ctx context.Context, productID int64, active bool) error
}

type productServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewProductService(r Repository, logger *slog.Logger) ProductService {
	return &productServiceImpl{repo: r, logger: logger.With("component", "ProductService")}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, name, description string, interestRate float64, durationDays int, processingFee, penaltyRate float64) (*LoanProduct, error) {
	s.logger.InfoContext(ctx, "Creating loan product", "name", name)

	p, err := NewLoanProduct(name, description, interestRate, durationDays, processingFee, penaltyRate)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan product", "name", name, "error", err)
		return nil, fmt.Errorf("%w: failed to save loan product: %v", apperrors.ErrInternalServer, err)
	}

	s.logger.InfoContext(ctx, "Loan product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, productID int64) (*LoanProduct, error) {
	p, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan product %d not found", apperrors.ErrNotFound, productID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan product", "product_id", productID, "error", err)
		return nil, fmt.Errorf("%w: failed to get loan product %d: %v", apperrors.ErrInternalServer, productID, err)
	}
	return p, nil
}

func (s *productServiceImpl) GetActiveProduct(ctx context.Context, productID int64) (*LoanProduct, error) {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, fmt.Errorf("%w: selected loan product is not active", apperrors.ErrValidation)
	}
	return p, nil
}

func (s *productServiceImpl) ListProducts(ctx context.Context, activeOnly bool) ([]LoanProduct, error) {
	products, err := s.repo.ListProducts(ctx, activeOnly)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loan products", "error", err)
		return nil, fmt.Errorf("%w: failed to list loan products: %v", apperrors.ErrInternalServer, err)
	}
	return products, nil
}

func (s *productServiceImpl) SetProductActive(ctx context.Context, productID int64, active bool) error {
	err := s.repo.SetProductActive(ctx, productID, active)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: loan product %d not found", apperrors.ErrNotFound, productID)
		}
		s.logger.ErrorContext(ctx, "Failed to update product status", "product_id", productID, "error", err)
		return fmt.Errorf("%w: failed to update product status: %v", apperrors.ErrInternalServer, err)
	}
	s.logger.InfoContext(ctx, "Loan product status updated", "product_id", productID, "is_active", active)
	return nil
}
