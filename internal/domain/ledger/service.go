package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"easytap/internal/infrastructure/monitoring"
	"easytap/internal/pkg/apperrors"
)

// DisbursementPosting describes the single cash→receivable movement recorded
// when loan funds are released.
type DisbursementPosting struct {
	LoanID        int64
	LoanRef       string
	Reference     string
	CustomerEmail string
	Principal     float64
	RecordedBy    string
}

// RepaymentPosting describes the up-to-two movements recorded when a
// repayment is applied: the principal portion reduces the receivable, the
// interest portion recognizes income.
type RepaymentPosting struct {
	LoanID           int64
	RepaymentID      int64
	LoanRef          string
	TransactionRef   string
	PrincipalPortion float64
	InterestPortion  float64
	RecordedBy       string
}

type RevenueSummary struct {
	RealizedInterest float64
	RealizedFees     float64
}

type LedgerService interface {
	// EnsureDefaultAccounts seeds the default chart of accounts when the
	// table is empty. Safe to call on every startup.
	EnsureDefaultAccounts(ctx context.Context) error

	PostDisbursement(ctx context.Context, p DisbursementPosting) error

	PostRepayment(ctx context.Context, p RepaymentPosting) error

	ListEntries(ctx context.Context, limit int) ([]Entry, error)

	// ListEntriesForLoan returns every posting related to one loan,
	// oldest first, so the loan's money movement reads as a history.
	ListEntriesForLoan(ctx context.Context, loanID int64) ([]Entry, error)

	GetRevenueSummary(ctx context.Context) (*RevenueSummary, error)
}

type ledgerServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewLedgerService(r Repository, logger *slog.Logger) LedgerService {
	return &ledgerServiceImpl{repo: r, logger: logger.With("component", "LedgerService")}
}

func (s *ledgerServiceImpl) EnsureDefaultAccounts(ctx context.Context) error {
	count, err := s.repo.CountAccounts(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to count accounts: %v", apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}

	s.logger.InfoContext(ctx, "Chart of accounts is empty, seeding defaults")
	if err := s.repo.CreateAccounts(ctx, DefaultAccounts()); err != nil {
		return fmt.Errorf("%w: failed to seed default accounts: %v", apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *ledgerServiceImpl) PostDisbursement(ctx context.Context, p DisbursementPosting) error {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		monitoring.RecordLedgerPosting("disbursement", "failure")
		return fmt.Errorf("failed to fetch chart of accounts: %w", err)
	}

	set := ResolveAccounts(accounts)
	if set.Cash == nil || set.Receivable == nil {
		monitoring.RecordLedgerPosting("disbursement", "skipped")
		s.logger.WarnContext(ctx, "No ledger accounts available, skipping disbursement posting", "loan_ref", p.LoanRef)
		return nil
	}

	description := fmt.Sprintf("Loan Disbursement: %s - Ref: %s", p.LoanRef, p.Reference)
	if p.CustomerEmail != "" {
		description = fmt.Sprintf("Loan Disbursement: %s for %s - Ref: %s", p.LoanRef, p.CustomerEmail, p.Reference)
	}

	loanID := p.LoanID
	entry := &Entry{
		Amount:          p.Principal,
		DebitAccountID:  set.Receivable.ID,
		CreditAccountID: set.Cash.ID,
		Description:     description,
		RecordedBy:      p.RecordedBy,
		RelatedLoanID:   &loanID,
		TransactionDate: time.Now(),
	}

	if _, err := s.repo.CreateEntry(ctx, entry); err != nil {
		monitoring.RecordLedgerPosting("disbursement", "failure")
		return fmt.Errorf("failed to post disbursement entry: %w", err)
	}
	monitoring.RecordLedgerPosting("disbursement", "success")
	s.logger.InfoContext(ctx, "Posted disbursement ledger entry", "loan_ref", p.LoanRef, "amount", p.Principal)
	return nil
}

func (s *ledgerServiceImpl) PostRepayment(ctx context.Context, p RepaymentPosting) error {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		monitoring.RecordLedgerPosting("repayment", "failure")
		return fmt.Errorf("failed to fetch chart of accounts: %w", err)
	}

	// A repayment moves value between two accounts; with fewer than two the
	// positional fallback would debit and credit the same account.
	if len(accounts) < 2 {
		monitoring.RecordLedgerPosting("repayment", "skipped")
		s.logger.WarnContext(ctx, "Fewer than two ledger accounts available, skipping repayment posting", "loan_ref", p.LoanRef)
		return nil
	}

	set := ResolveAccounts(accounts)
	if set.Cash == nil || set.Receivable == nil {
		monitoring.RecordLedgerPosting("repayment", "skipped")
		s.logger.WarnContext(ctx, "No ledger accounts available, skipping repayment posting", "loan_ref", p.LoanRef)
		return nil
	}

	loanID := p.LoanID
	repaymentID := p.RepaymentID
	now := time.Now()

	if p.PrincipalPortion > 0 {
		entry := &Entry{
			Amount:             p.PrincipalPortion,
			DebitAccountID:     set.Cash.ID,
			CreditAccountID:    set.Receivable.ID,
			Description:        fmt.Sprintf("Loan Repayment (Principal): %s - Ref: %s", p.LoanRef, p.TransactionRef),
			RecordedBy:         p.RecordedBy,
			RelatedLoanID:      &loanID,
			RelatedRepaymentID: &repaymentID,
			TransactionDate:    now,
		}
		if _, err := s.repo.CreateEntry(ctx, entry); err != nil {
			monitoring.RecordLedgerPosting("repayment", "failure")
			return fmt.Errorf("failed to post principal entry: %w", err)
		}
	}

	if p.InterestPortion > 0 {
		entry := &Entry{
			Amount:             p.InterestPortion,
			DebitAccountID:     set.Cash.ID,
			CreditAccountID:    set.Income.ID,
			Description:        fmt.Sprintf("Loan Repayment (Interest Earned): %s - Ref: %s", p.LoanRef, p.TransactionRef),
			RecordedBy:         p.RecordedBy,
			RelatedLoanID:      &loanID,
			RelatedRepaymentID: &repaymentID,
			TransactionDate:    now,
		}
		if _, err := s.repo.CreateEntry(ctx, entry); err != nil {
			monitoring.RecordLedgerPosting("repayment", "failure")
			return fmt.Errorf("failed to post interest entry: %w", err)
		}
	}

	monitoring.RecordLedgerPosting("repayment", "success")
	s.logger.InfoContext(ctx, "Posted repayment ledger entries",
		"loan_ref", p.LoanRef,
		"principal_portion", p.PrincipalPortion,
		"interest_portion", p.InterestPortion,
	)
	return nil
}

func (s *ledgerServiceImpl) ListEntries(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.repo.ListEntries(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list ledger entries", "error", err)
		return nil, fmt.Errorf("%w: failed to list ledger entries: %v", apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

func (s *ledgerServiceImpl) ListEntriesForLoan(ctx context.Context, loanID int64) ([]Entry, error) {
	if loanID <= 0 {
		return nil, fmt.Errorf("%w: loan id must be positive", apperrors.ErrValidation)
	}
	entries, err := s.repo.ListEntriesByLoan(ctx, loanID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list ledger entries for loan", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to list ledger entries for loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	return entries, nil
}

func (s *ledgerServiceImpl) GetRevenueSummary(ctx context.Context) (*RevenueSummary, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch chart of accounts: %v", apperrors.ErrInternalServer, err)
	}

	summary := &RevenueSummary{}
	for _, a := range accounts {
		lower := strings.ToLower(a.Name)
		switch {
		case strings.Contains(lower, "interest income"):
			total, err := s.repo.SumCreditsByAccount(ctx, a.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to sum interest income: %v", apperrors.ErrInternalServer, err)
			}
			summary.RealizedInterest += total
		case strings.Contains(lower, "fee income"), strings.Contains(lower, "processing fees"):
			total, err := s.repo.SumCreditsByAccount(ctx, a.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to sum fee income: %v", apperrors.ErrInternalServer, err)
			}
			summary.RealizedFees += total
		}
	}
	return summary, nil
}
