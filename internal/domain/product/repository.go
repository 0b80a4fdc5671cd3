package product

import "context"

type Repository interface {
	CreateProduct(ctx context.Context, p *LoanProduct) (*LoanProduct, error)

	GetProductByID(ctx context.Context, productID int64) (*LoanProduct, error)

	ListProducts(ctx context.Context, activeOnly bool) ([]LoanProduct, error)

	SetProductActive(ctx context.Context, productID int64, active bool) error
}
