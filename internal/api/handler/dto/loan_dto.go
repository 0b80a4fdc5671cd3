package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"easytap/internal/domain/loan"
)

type ApplyLoanRequest struct {
	ProductID int64  `json:"productId"`
	Amount    string `json:"amount"`
}

func (r *ApplyLoanRequest) Validate() error {
	if r.ProductID <= 0 {
		return fmt.Errorf("productId is required")
	}
	d, err := decimal.NewFromString(r.Amount)
	if err != nil || r.Amount == "" {
		return fmt.Errorf("invalid loan amount: %w", err)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

func (r *ApplyLoanRequest) AmountValue() float64 {
	d, _ := decimal.NewFromString(r.Amount)
	f, _ := d.Float64()
	return f
}

type CreateDisbursedLoanRequest struct {
	CustomerID      string `json:"customerId"`
	ProductID       int64  `json:"productId"`
	Principal       string `json:"principal"`
	DisbursementRef string `json:"disbursementRef"`
	Notes           string `json:"notes,omitempty"`
}

func (r *CreateDisbursedLoanRequest) Validate() error {
	if r.CustomerID == "" {
		return fmt.Errorf("customerId is required")
	}
	if r.ProductID <= 0 {
		return fmt.Errorf("productId is required")
	}
	d, err := decimal.NewFromString(r.Principal)
	if err != nil || r.Principal == "" {
		return fmt.Errorf("invalid principal amount: %w", err)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("principal must be greater than zero")
	}
	if len(r.DisbursementRef) < 5 {
		return fmt.Errorf("disbursement reference must be at least 5 characters")
	}
	return nil
}

func (r *CreateDisbursedLoanRequest) PrincipalValue() float64 {
	d, _ := decimal.NewFromString(r.Principal)
	f, _ := d.Float64()
	return f
}

type ApproveLoanRequest struct {
	DisbursementRef string `json:"disbursementRef"`
}

func (r *ApproveLoanRequest) Validate() error {
	if r.DisbursementRef == "" {
		return fmt.Errorf("disbursementRef is required")
	}
	return nil
}

type RejectLoanRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectLoanRequest) Validate() error {
	if r.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	return nil
}

type RecordRepaymentRequest struct {
	Amount         string `json:"amount"`
	TransactionRef string `json:"transactionRef"`
	Notes          string `json:"notes,omitempty"`
}

func (r *RecordRepaymentRequest) Validate() error {
	d, err := decimal.NewFromString(r.Amount)
	if err != nil || r.Amount == "" {
		return fmt.Errorf("invalid repayment amount: %w", err)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be greater than zero")
	}
	if r.TransactionRef == "" {
		return fmt.Errorf("transactionRef is required")
	}
	return nil
}

func (r *RecordRepaymentRequest) AmountValue() float64 {
	d, _ := decimal.NewFromString(r.Amount)
	f, _ := d.Float64()
	return f
}

type LoanResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	ProductID       string     `json:"productId"`
	LoanRef         string     `json:"loanRef"`
	PrincipalAmount string     `json:"principalAmount"`
	InterestAmount  string     `json:"interestAmount"`
	ProcessingFee   string     `json:"processingFee"`
	TotalPayable    string     `json:"totalPayable"`
	AmountPaid      string     `json:"amountPaid"`
	BalanceDue      string     `json:"balanceDue"`
	Status          string     `json:"status"`
	DisbursementRef *string    `json:"disbursementRef,omitempty"`
	DisbursedAt     *time.Time `json:"disbursedAt,omitempty"`
	DueDate         *string    `json:"dueDate,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type RepaymentResponse struct {
	ID             string    `json:"id"`
	LoanID         string    `json:"loanId"`
	Amount         string    `json:"amount"`
	TransactionRef string    `json:"transactionRef"`
	PaymentDate    time.Time `json:"paymentDate"`
	RecordedBy     string    `json:"recordedBy"`
	PaymentMethod  string    `json:"paymentMethod"`
	Notes          string    `json:"notes,omitempty"`
}

type RepaymentResultResponse struct {
	Repayment        RepaymentResponse `json:"repayment"`
	NewAmountPaid    string            `json:"newAmountPaid"`
	NewBalance       string            `json:"newBalance"`
	Status           string            `json:"status"`
	PrincipalPortion string            `json:"principalPortion"`
	InterestPortion  string            `json:"interestPortion"`
}

func formatMoney(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	resp := LoanResponse{
		ID:              strconv.FormatInt(l.ID, 10),
		UserID:          l.UserID,
		ProductID:       strconv.FormatInt(l.ProductID, 10),
		LoanRef:         l.LoanRef,
		PrincipalAmount: formatMoney(l.PrincipalAmount),
		InterestAmount:  formatMoney(l.InterestAmount),
		ProcessingFee:   formatMoney(l.ProcessingFee),
		TotalPayable:    formatMoney(l.TotalPayable),
		AmountPaid:      formatMoney(l.AmountPaid),
		BalanceDue:      formatMoney(l.TotalPayable - l.AmountPaid),
		Status:          string(l.Status),
		DisbursementRef: l.DisbursementRef,
		DisbursedAt:     l.DisbursedAt,
		RejectionReason: l.RejectionReason,
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if l.DueDate != nil {
		due := l.DueDate.Format(time.RFC3339[:10])
		resp.DueDate = &due
	}
	return resp
}

func NewLoanListResponse(loans []loan.Loan) []LoanResponse {
	out := make([]LoanResponse, len(loans))
	for i := range loans {
		out[i] = NewLoanResponse(&loans[i])
	}
	return out
}

func NewRepaymentResponse(r *loan.Repayment) RepaymentResponse {
	return RepaymentResponse{
		ID:             strconv.FormatInt(r.ID, 10),
		LoanID:         strconv.FormatInt(r.LoanID, 10),
		Amount:         formatMoney(r.Amount),
		TransactionRef: r.TransactionRef,
		PaymentDate:    r.PaymentDate,
		RecordedBy:     r.RecordedBy,
		PaymentMethod:  r.PaymentMethod,
		Notes:          r.Notes,
	}
}

func NewRepaymentResultResponse(res *loan.RepaymentResult) RepaymentResultResponse {
	return RepaymentResultResponse{
		Repayment:        NewRepaymentResponse(res.Repayment),
		NewAmountPaid:    formatMoney(res.NewAmountPaid),
		NewBalance:       formatMoney(res.NewBalance),
		Status:           string(res.NewStatus),
		PrincipalPortion: formatMoney(res.PrincipalPortion),
		InterestPortion:  formatMoney(res.InterestPortion),
	}
}
