package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"easytap/internal/api/handler/dto"
	"easytap/internal/domain/loan"
	"easytap/internal/pkg/apperrors"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Apply(ctx context.Context, productID int64, amount loan.Money) (*loan.Loan, error) {
	args := m.Called(ctx, productID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) CreateDisbursed(ctx context.Context, customerID string, productID int64, principal loan.Money, disbursementRef, notes string) (*loan.Loan, error) {
	args := m.Called(ctx, customerID, productID, principal, disbursementRef, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) Approve(ctx context.Context, loanID int64, disbursementRef string) (*loan.Loan, error) {
	args := m.Called(ctx, loanID, disbursementRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) Reject(ctx context.Context, loanID int64, reason string) error {
	return m.Called(ctx, loanID, reason).Error(0)
}

func (m *MockLoanService) RecordRepayment(ctx context.Context, loanID int64, amount loan.Money, transactionRef, notes string) (*loan.RepaymentResult, error) {
	args := m.Called(ctx, loanID, amount, transactionRef, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.RepaymentResult), args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, status *loan.LoanStatus) ([]loan.Loan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loan.Loan), args.Error(1)
}

func (m *MockLoanService) ListRepayments(ctx context.Context, loanID int64) ([]loan.Repayment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loan.Repayment), args.Error(1)
}

func (m *MockLoanService) GetPortfolioSummary(ctx context.Context) (*loan.PortfolioSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.PortfolioSummary), args.Error(1)
}

func sampleLoan() *loan.Loan {
	due := time.Now().AddDate(0, 0, 30)
	return &loan.Loan{
		ID:              42,
		UserID:          "cust-1",
		ProductID:       1,
		LoanRef:         "LN-123456-ABCD",
		PrincipalAmount: 10000,
		InterestAmount:  1000,
		TotalPayable:    11000,
		Status:          loan.StatusPending,
		DueDate:         &due,
	}
}

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestLoanHandlerApply(t *testing.T) {
	t.Run("valid application returns 201", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("Apply", mock.Anything, int64(1), 10000.0).Return(sampleLoan(), nil)

		h := NewLoanHandler(svc, testLogger)
		req := httptest.NewRequest(http.MethodPost, "/loans/apply", strings.NewReader(`{"productId":1,"amount":"10000"}`))
		rec := httptest.NewRecorder()

		h.Apply(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.LoanResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "42", resp.ID)
		assert.Equal(t, "11000.00", resp.TotalPayable)
		assert.Equal(t, "pending", resp.Status)
		svc.AssertExpectations(t)
	})

	t.Run("malformed amount returns 400", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		req := httptest.NewRequest(http.MethodPost, "/loans/apply", strings.NewReader(`{"productId":1,"amount":"abc"}`))
		rec := httptest.NewRecorder()

		h.Apply(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		req := httptest.NewRequest(http.MethodPost, "/loans/apply", strings.NewReader(`{"productId":1,"amount":"100","surprise":true}`))
		rec := httptest.NewRecorder()

		h.Apply(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoanHandlerGetLoan(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("GetLoan", mock.Anything, int64(42)).Return(sampleLoan(), nil)

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/loans/42", nil), "loanID", "42")
		rec := httptest.NewRecorder()

		h.GetLoan(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("GetLoan", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/loans/99", nil), "loanID", "99")
		rec := httptest.NewRecorder()

		h.GetLoan(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("forbidden maps to 403", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("GetLoan", mock.Anything, int64(42)).
			Return(nil, fmt.Errorf("%w: loan belongs to another customer", apperrors.ErrForbidden))

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/loans/42", nil), "loanID", "42")
		rec := httptest.NewRecorder()

		h.GetLoan(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/loans/abc", nil), "loanID", "abc")
		rec := httptest.NewRecorder()

		h.GetLoan(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoanHandlerListLoans(t *testing.T) {
	t.Run("status filter applied", func(t *testing.T) {
		svc := new(MockLoanService)
		st := loan.StatusActive
		svc.On("ListLoans", mock.Anything, &st).Return([]loan.Loan{*sampleLoan()}, nil)

		h := NewLoanHandler(svc, testLogger)
		req := httptest.NewRequest(http.MethodGet, "/loans?status=active", nil)
		rec := httptest.NewRecorder()

		h.ListLoans(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown status is 400", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		req := httptest.NewRequest(http.MethodGet, "/loans?status=limbo", nil)
		rec := httptest.NewRecorder()

		h.ListLoans(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ListLoans", mock.Anything, mock.Anything)
	})
}

func TestLoanHandlerApprove(t *testing.T) {
	t.Run("approved returns updated loan", func(t *testing.T) {
		approved := sampleLoan()
		approved.Status = loan.StatusActive

		svc := new(MockLoanService)
		svc.On("Approve", mock.Anything, int64(42), "SGH45T").Return(approved, nil)

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/approve", strings.NewReader(`{"disbursementRef":"SGH45T"}`)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.Approve(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.LoanResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("duplicate reference maps to 409", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("Approve", mock.Anything, int64(42), "SGH45T").
			Return(nil, fmt.Errorf("%w: this M-Pesa reference has already been used for another loan", apperrors.ErrConflict))

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/approve", strings.NewReader(`{"disbursementRef":"SGH45T"}`)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.Approve(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "M-Pesa reference has already been used")
	})

	t.Run("non-pending loan maps to 409", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("Approve", mock.Anything, int64(42), "SGH45T").
			Return(nil, fmt.Errorf("%w: loan is already active, cannot approve", apperrors.ErrLoanState))

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/approve", strings.NewReader(`{"disbursementRef":"SGH45T"}`)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.Approve(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing reference is 400", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/approve", strings.NewReader(`{}`)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.Approve(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoanHandlerRecordRepayment(t *testing.T) {
	body := `{"amount":"5000","transactionRef":"TX99887"}`

	t.Run("repayment recorded", func(t *testing.T) {
		result := &loan.RepaymentResult{
			Repayment: &loan.Repayment{
				ID: 7, LoanID: 42, Amount: 5000, TransactionRef: "TX99887",
			},
			NewAmountPaid:    5000,
			NewBalance:       6000,
			NewStatus:        loan.StatusActive,
			PrincipalPortion: 4545.45,
			InterestPortion:  454.55,
		}

		svc := new(MockLoanService)
		svc.On("RecordRepayment", mock.Anything, int64(42), 5000.0, "TX99887", "").Return(result, nil)

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/repayments", strings.NewReader(body)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.RecordRepayment(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.RepaymentResultResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "6000.00", resp.NewBalance)
		assert.Equal(t, "454.55", resp.InterestPortion)
	})

	t.Run("overpayment maps to 400", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("RecordRepayment", mock.Anything, int64(42), 5000.0, "TX99887", "").
			Return(nil, fmt.Errorf("%w: repayment amount (5000.00) exceeds the balance due (1000.00)", apperrors.ErrOverpayment))

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/repayments", strings.NewReader(body)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.RecordRepayment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("fully paid loan maps to 400", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("RecordRepayment", mock.Anything, int64(42), 5000.0, "TX99887", "").
			Return(nil, apperrors.ErrLoanFullyPaid)

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/repayments", strings.NewReader(body)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.RecordRepayment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "fully repaid")
	})

	t.Run("duplicate transaction ref maps to 409", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("RecordRepayment", mock.Anything, int64(42), 5000.0, "TX99887", "").
			Return(nil, fmt.Errorf("%w: this transaction reference has already been used for another repayment", apperrors.ErrConflict))

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/repayments", strings.NewReader(body)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.RecordRepayment(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoanHandlerReject(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("Reject", mock.Anything, int64(42), "insufficient history").Return(nil)

		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/reject", strings.NewReader(`{"reason":"insufficient history"}`)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.Reject(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Loan rejected")
	})

	t.Run("missing reason is 400", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/loans/42/reject", strings.NewReader(`{}`)),
			"loanID", "42")
		rec := httptest.NewRecorder()

		h.Reject(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
