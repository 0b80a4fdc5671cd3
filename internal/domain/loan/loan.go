package loan

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"easytap/internal/domain/product"
	"easytap/internal/pkg/apperrors"
)

type Money = float64

type LoanStatus string

const (
	StatusPending  LoanStatus = "pending"
	StatusActive   LoanStatus = "active"
	StatusRejected LoanStatus = "rejected"
	StatusPaid     LoanStatus = "paid"
)

// IsTerminal reports whether no further transitions are allowed.
func (s LoanStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusPaid
}

// Loan is a single credit extended to a customer. TotalPayable and
// BalanceDue are derived values: TotalPayable is fixed at creation and
// BalanceDue is always TotalPayable minus AmountPaid, recomputed on read
// rather than written.
type Loan struct {
	ID              int64
	UserID          string
	ProductID       int64
	LoanRef         string
	PrincipalAmount Money
	InterestAmount  Money
	ProcessingFee   Money
	TotalPayable    Money
	AmountPaid      Money
	BalanceDue      Money
	Status          LoanStatus
	DisbursementRef *string
	DisbursedAt     *time.Time
	DisbursedBy     *string
	DueDate         *time.Time
	RejectionReason *string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Repayment is an immutable record of a single payment against a loan.
type Repayment struct {
	ID             int64
	LoanID         int64
	UserID         string
	Amount         Money
	TransactionRef string
	PaymentDate    time.Time
	RecordedBy     string
	PaymentMethod  string
	Notes          string
	CreatedAt      time.Time
}

// Terms is the output of the loan calculator: the cost of borrowing a
// principal under a product's conditions.
type Terms struct {
	Interest      Money
	ProcessingFee Money
	TotalPayable  Money
	DueDate       time.Time
}

// ComputeTerms applies a product's flat interest rate and processing fee to
// a principal. Interest is single-period: principal × rate / 100, no
// compounding and no amortization schedule.
func ComputeTerms(principal Money, p *product.LoanProduct, now time.Time) (*Terms, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: loan product is required", apperrors.ErrValidation)
	}
	if principal <= 0 || math.IsNaN(principal) || math.IsInf(principal, 0) {
		return nil, fmt.Errorf("%w: principal must be a positive amount", apperrors.ErrValidation)
	}

	interest := principal * p.InterestRate / 100
	fee := p.ProcessingFee
	if fee < 0 {
		fee = 0
	}

	return &Terms{
		Interest:      interest,
		ProcessingFee: fee,
		TotalPayable:  principal + interest + fee,
		DueDate:       now.AddDate(0, 0, p.DurationDays),
	}, nil
}

// NewLoanRef builds a human-readable loan identifier in the form
// LN-<last six digits of unix ms>-<four random uppercase chars>.
func NewLoanRef(now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("LN-%s-%s", ms, suffix)
}

// CanApprove checks the pending→active transition precondition.
func (l *Loan) CanApprove() error {
	if l.Status != StatusPending {
		return fmt.Errorf("%w: loan is already %s, cannot approve", apperrors.ErrLoanState, l.Status)
	}
	return nil
}

// CanReject checks the pending→rejected transition precondition.
func (l *Loan) CanReject() error {
	if l.Status != StatusPending {
		return fmt.Errorf("%w: loan is already %s, cannot reject", apperrors.ErrLoanState, l.Status)
	}
	return nil
}

// SplitRepayment divides a repayment amount into interest and principal
// portions using the loan-level ratio fixed at creation
// (interest_amount / total_payable), not the remaining balance. The interest
// portion is rounded to two decimal places; the principal portion absorbs
// the rounding remainder so the two always sum to the original amount.
func (l *Loan) SplitRepayment(amount Money) (principalPortion, interestPortion Money) {
	totalPayable := l.TotalPayable
	if totalPayable <= 0 {
		totalPayable = 1
	}
	interestRatio := l.InterestAmount / totalPayable
	interestPortion = roundTo(amount*interestRatio, 2)
	principalPortion = amount - interestPortion
	return principalPortion, interestPortion
}

// IsOverdue reports whether an active loan is past its due date with money
// still owed.
func (l *Loan) IsOverdue(asOf time.Time) bool {
	return l.Status == StatusActive && l.DueDate != nil && l.DueDate.Before(asOf) && l.BalanceDue > 0
}

func roundTo(n float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(n*pow) / pow
}
