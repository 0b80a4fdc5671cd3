package loan

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"easytap/internal/domain/product"
	"easytap/internal/pkg/apperrors"
)

func activeProduct() *product.LoanProduct {
	return &product.LoanProduct{
		ID:            1,
		Name:          "Biashara Boost",
		InterestRate:  10,
		DurationDays:  30,
		ProcessingFee: 0,
		IsActive:      true,
	}
}

func TestComputeTerms(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("flat interest with no fee", func(t *testing.T) {
		terms, err := ComputeTerms(10000, activeProduct(), now)
		assert.NoError(t, err)
		assert.Equal(t, 1000.0, terms.Interest)
		assert.Equal(t, 0.0, terms.ProcessingFee)
		assert.Equal(t, 11000.0, terms.TotalPayable)
		assert.Equal(t, now.AddDate(0, 0, 30), terms.DueDate)
	})

	t.Run("processing fee added to total", func(t *testing.T) {
		p := activeProduct()
		p.ProcessingFee = 150
		terms, err := ComputeTerms(5000, p, now)
		assert.NoError(t, err)
		assert.Equal(t, 500.0, terms.Interest)
		assert.Equal(t, 150.0, terms.ProcessingFee)
		assert.Equal(t, 5650.0, terms.TotalPayable)
	})

	t.Run("zero interest rate product", func(t *testing.T) {
		p := activeProduct()
		p.InterestRate = 0
		terms, err := ComputeTerms(2000, p, now)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, terms.Interest)
		assert.Equal(t, 2000.0, terms.TotalPayable)
	})

	t.Run("rejects non-positive principal", func(t *testing.T) {
		for _, principal := range []float64{0, -500} {
			_, err := ComputeTerms(principal, activeProduct(), now)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		}
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := ComputeTerms(1000, nil, now)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestNewLoanRef(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ref := NewLoanRef(now)

	parts := strings.Split(ref, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, "LN", parts[0])
	assert.Len(t, parts[1], 6)
	assert.Len(t, parts[2], 4)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}

func TestCanApproveAndReject(t *testing.T) {
	cases := []struct {
		status  LoanStatus
		allowed bool
	}{
		{StatusPending, true},
		{StatusActive, false},
		{StatusRejected, false},
		{StatusPaid, false},
	}

	for _, tc := range cases {
		l := &Loan{Status: tc.status}
		if tc.allowed {
			assert.NoError(t, l.CanApprove())
			assert.NoError(t, l.CanReject())
		} else {
			assert.ErrorIs(t, l.CanApprove(), apperrors.ErrLoanState)
			assert.ErrorIs(t, l.CanReject(), apperrors.ErrLoanState)
		}
	}
}

func TestSplitRepayment(t *testing.T) {
	// 10000 principal, 1000 interest, total 11000: interest ratio 1/11.
	l := &Loan{
		PrincipalAmount: 10000,
		InterestAmount:  1000,
		TotalPayable:    11000,
	}

	t.Run("portions always sum to the amount", func(t *testing.T) {
		for _, amount := range []Money{11000, 5000, 3333.33, 0.01} {
			principal, interest := l.SplitRepayment(amount)
			assert.InDelta(t, amount, principal+interest, 1e-9)
			assert.GreaterOrEqual(t, interest, 0.0)
		}
	})

	t.Run("full repayment recovers the original split", func(t *testing.T) {
		principal, interest := l.SplitRepayment(11000)
		assert.InDelta(t, 1000.0, interest, 0.01)
		assert.InDelta(t, 10000.0, principal, 0.01)
	})

	t.Run("interest portion rounded to cents", func(t *testing.T) {
		_, interest := l.SplitRepayment(100)
		assert.Equal(t, interest, roundTo(interest, 2))
	})

	t.Run("zero total payable does not divide by zero", func(t *testing.T) {
		broken := &Loan{InterestAmount: 0, TotalPayable: 0}
		principal, interest := broken.SplitRepayment(50)
		assert.Equal(t, 0.0, interest)
		assert.Equal(t, 50.0, principal)
	})
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	t.Run("active past due with balance", func(t *testing.T) {
		l := &Loan{Status: StatusActive, DueDate: &past, BalanceDue: 100}
		assert.True(t, l.IsOverdue(now))
	})

	t.Run("active not yet due", func(t *testing.T) {
		l := &Loan{Status: StatusActive, DueDate: &future, BalanceDue: 100}
		assert.False(t, l.IsOverdue(now))
	})

	t.Run("paid loans are never overdue", func(t *testing.T) {
		l := &Loan{Status: StatusPaid, DueDate: &past, BalanceDue: 0}
		assert.False(t, l.IsOverdue(now))
	})

	t.Run("nil due date", func(t *testing.T) {
		l := &Loan{Status: StatusActive, BalanceDue: 100}
		assert.False(t, l.IsOverdue(now))
	})
}

func TestLoanStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusPaid.IsTerminal())
}
