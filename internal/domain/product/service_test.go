package product

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"easytap/internal/pkg/apperrors"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, p *LoanProduct) (*LoanProduct, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoanProduct), args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, productID int64) (*LoanProduct, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoanProduct), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, activeOnly bool) ([]LoanProduct, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LoanProduct), args.Error(1)
}

func (m *MockProductRepository) SetProductActive(ctx context.Context, productID int64, active bool) error {
	return m.Called(ctx, productID, active).Error(0)
}

func sampleProduct() *LoanProduct {
	return &LoanProduct{
		ID:           1,
		Name:         "Biashara Boost",
		InterestRate: 10,
		DurationDays: 30,
		IsActive:     true,
	}
}

func TestNewLoanProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		p, err := NewLoanProduct("  Biashara Boost  ", "Working capital", 10, 30, 150, 5)
		assert.NoError(t, err)
		assert.Equal(t, "Biashara Boost", p.Name)
		assert.True(t, p.IsActive)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name          string
			productName   string
			interestRate  float64
			durationDays  int
			processingFee float64
			penaltyRate   float64
		}{
			{"blank name", "   ", 10, 30, 0, 0},
			{"negative interest", "X", -1, 30, 0, 0},
			{"zero duration", "X", 10, 0, 0, 0},
			{"negative fee", "X", 10, 30, -1, 0},
			{"negative penalty", "X", 10, 30, 0, -1},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewLoanProduct(tc.productName, "", tc.interestRate, tc.durationDays, tc.processingFee, tc.penaltyRate)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			})
		}
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a valid product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("CreateProduct", ctx, mock.MatchedBy(func(p *LoanProduct) bool {
			return p.Name == "Biashara Boost" && p.IsActive
		})).Return(sampleProduct(), nil)

		svc := NewProductService(repo, testLogger)
		created, err := svc.CreateProduct(ctx, "Biashara Boost", "", 10, 30, 0, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("invalid product never reaches the repository", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, testLogger)

		_, err := svc.CreateProduct(ctx, "", "", 10, 30, 0, 0)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})
}

func TestGetActiveProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("returns active product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("GetProductByID", ctx, int64(1)).Return(sampleProduct(), nil)

		svc := NewProductService(repo, testLogger)
		p, err := svc.GetActiveProduct(ctx, 1)
		assert.NoError(t, err)
		assert.True(t, p.IsActive)
	})

	t.Run("inactive product is a validation error", func(t *testing.T) {
		repo := new(MockProductRepository)
		inactive := sampleProduct()
		inactive.IsActive = false
		repo.On("GetProductByID", ctx, int64(1)).Return(inactive, nil)

		svc := NewProductService(repo, testLogger)
		_, err := svc.GetActiveProduct(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("missing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("GetProductByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound)

		svc := NewProductService(repo, testLogger)
		_, err := svc.GetActiveProduct(ctx, 99)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestSetProductActive(t *testing.T) {
	ctx := context.Background()

	t.Run("disables a product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("SetProductActive", ctx, int64(1), false).Return(nil)

		svc := NewProductService(repo, testLogger)
		assert.NoError(t, svc.SetProductActive(ctx, 1, false))
		repo.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("SetProductActive", ctx, int64(99), true).Return(apperrors.ErrNotFound)

		svc := NewProductService(repo, testLogger)
		assert.ErrorIs(t, svc.SetProductActive(ctx, 99, true), apperrors.ErrNotFound)
	})
}
