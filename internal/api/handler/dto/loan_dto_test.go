package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"easytap/internal/domain/loan"
)

func TestApplyLoanRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     ApplyLoanRequest
		wantErr bool
	}{
		{"valid", ApplyLoanRequest{ProductID: 1, Amount: "10000"}, false},
		{"valid with decimals", ApplyLoanRequest{ProductID: 1, Amount: "10000.50"}, false},
		{"missing product", ApplyLoanRequest{Amount: "10000"}, true},
		{"empty amount", ApplyLoanRequest{ProductID: 1, Amount: ""}, true},
		{"non-numeric amount", ApplyLoanRequest{ProductID: 1, Amount: "ten"}, true},
		{"zero amount", ApplyLoanRequest{ProductID: 1, Amount: "0"}, true},
		{"negative amount", ApplyLoanRequest{ProductID: 1, Amount: "-100"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyLoanRequestAmountValue(t *testing.T) {
	req := ApplyLoanRequest{ProductID: 1, Amount: "10000.50"}
	assert.Equal(t, 10000.50, req.AmountValue())
}

func TestCreateDisbursedLoanRequestValidate(t *testing.T) {
	valid := CreateDisbursedLoanRequest{
		CustomerID:      "cust-1",
		ProductID:       1,
		Principal:       "10000",
		DisbursementRef: "SGH45T",
	}
	assert.NoError(t, valid.Validate())

	t.Run("short disbursement reference", func(t *testing.T) {
		req := valid
		req.DisbursementRef = "AB1"
		assert.ErrorContains(t, req.Validate(), "at least 5 characters")
	})

	t.Run("missing customer", func(t *testing.T) {
		req := valid
		req.CustomerID = ""
		assert.Error(t, req.Validate())
	})
}

func TestRecordRepaymentRequestValidate(t *testing.T) {
	valid := RecordRepaymentRequest{Amount: "5000", TransactionRef: "TX99887"}
	assert.NoError(t, valid.Validate())

	t.Run("missing transaction ref", func(t *testing.T) {
		req := valid
		req.TransactionRef = ""
		assert.Error(t, req.Validate())
	})

	t.Run("zero amount", func(t *testing.T) {
		req := valid
		req.Amount = "0"
		assert.Error(t, req.Validate())
	})
}

func TestNewLoanResponse(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	l := &loan.Loan{
		ID:              42,
		UserID:          "cust-1",
		ProductID:       1,
		LoanRef:         "LN-123456-ABCD",
		PrincipalAmount: 10000,
		InterestAmount:  1000,
		TotalPayable:    11000,
		AmountPaid:      2500.5,
		Status:          loan.StatusActive,
		DueDate:         &due,
	}

	resp := NewLoanResponse(l)

	assert.Equal(t, "42", resp.ID)
	assert.Equal(t, "1", resp.ProductID)
	assert.Equal(t, "10000.00", resp.PrincipalAmount)
	assert.Equal(t, "2500.50", resp.AmountPaid)
	// Balance is always recomputed from total payable and amount paid.
	assert.Equal(t, "8499.50", resp.BalanceDue)
	assert.Equal(t, "active", resp.Status)
	assert.NotNil(t, resp.DueDate)
	assert.Equal(t, "2026-04-01", *resp.DueDate)
}

func TestNewRepaymentResultResponse(t *testing.T) {
	res := &loan.RepaymentResult{
		Repayment: &loan.Repayment{
			ID: 7, LoanID: 42, Amount: 5000, TransactionRef: "TX99887", PaymentMethod: "mpesa",
		},
		NewAmountPaid:    5000,
		NewBalance:       6000,
		NewStatus:        loan.StatusActive,
		PrincipalPortion: 4545.45,
		InterestPortion:  454.55,
	}

	resp := NewRepaymentResultResponse(res)

	assert.Equal(t, "7", resp.Repayment.ID)
	assert.Equal(t, "5000.00", resp.NewAmountPaid)
	assert.Equal(t, "6000.00", resp.NewBalance)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "4545.45", resp.PrincipalPortion)
	assert.Equal(t, "454.55", resp.InterestPortion)
}
