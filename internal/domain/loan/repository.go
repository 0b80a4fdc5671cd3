package loan

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	CreateLoan(ctx context.Context, l *Loan) (*Loan, error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	ListLoans(ctx context.Context, status *LoanStatus) ([]Loan, error)

	ListLoansByUser(ctx context.Context, userID string) ([]Loan, error)

	// DisbursementRefExists checks the reference against all loans; the
	// storage layer also carries a unique index as the authoritative guard.
	DisbursementRefExists(ctx context.Context, ref string) (bool, error)

	TransactionRefExists(ctx context.Context, ref string) (bool, error)

	ListOverdueActiveLoans(ctx context.Context, asOf time.Time) ([]Loan, error)

	ListRepaymentsByLoan(ctx context.Context, loanID int64) ([]Repayment, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// GetLoanForUpdate locks the loan row for the remainder of the
	// transaction so concurrent approvals/repayments serialize per loan.
	GetLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error)

	ApproveLoanInTx(ctx context.Context, tx pgx.Tx, loanID int64, disbursementRef, disbursedBy string, disbursedAt time.Time) error

	RejectLoanInTx(ctx context.Context, tx pgx.Tx, loanID int64, reason string) error

	CreateRepaymentInTx(ctx context.Context, tx pgx.Tx, r *Repayment) (*Repayment, error)

	UpdateLoanPaymentInTx(ctx context.Context, tx pgx.Tx, loanID int64, newAmountPaid Money, newStatus LoanStatus) error
}
