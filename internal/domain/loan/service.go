package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"easytap/internal/domain/identity"
	"easytap/internal/domain/ledger"
	"easytap/internal/domain/product"
	"easytap/internal/event"
	"easytap/internal/infrastructure/monitoring"
	"easytap/internal/pkg/apperrors"
)

// RepaymentResult reports the outcome of a successfully applied repayment.
type RepaymentResult struct {
	Repayment        *Repayment
	NewAmountPaid    Money
	NewBalance       Money
	NewStatus        LoanStatus
	PrincipalPortion Money
	InterestPortion  Money
}

// PortfolioSummary aggregates the lending book for the admin overview.
// Outstanding principal and unrealized interest prorate each active loan's
// balance by the principal/interest ratios fixed at creation.
type PortfolioSummary struct {
	AllTimeDisbursed     Money
	OutstandingPrincipal Money
	UnrealizedInterest   Money
	TotalExpected        Money
	TotalCollected       Money
	CollectionRate       int
	ActiveCount          int
	PendingCount         int
	OverdueCount         int
}

type LoanService interface {
	// Apply submits a self-service loan application; the loan enters
	// pending with computed terms and no ledger effect.
	Apply(ctx context.Context, productID int64, amount Money) (*Loan, error)

	// CreateDisbursed creates a pre-disbursed active loan for an existing
	// customer, posting the disbursement ledger entry in the same logical
	// operation.
	CreateDisbursed(ctx context.Context, customerID string, productID int64, principal Money, disbursementRef, notes string) (*Loan, error)

	Approve(ctx context.Context, loanID int64, disbursementRef string) (*Loan, error)

	Reject(ctx context.Context, loanID int64, reason string) error

	RecordRepayment(ctx context.Context, loanID int64, amount Money, transactionRef, notes string) (*RepaymentResult, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListLoans(ctx context.Context, status *LoanStatus) ([]Loan, error)

	ListRepayments(ctx context.Context, loanID int64) ([]Repayment, error)

	GetPortfolioSummary(ctx context.Context) (*PortfolioSummary, error)
}

type loanServiceImpl struct {
	repo      Repository
	products  product.ProductService
	identity  identity.Service
	ledger    ledger.LedgerService
	publisher event.Publisher
	logger    *slog.Logger
}

func NewLoanService(
	r Repository,
	ps product.ProductService,
	ids identity.Service,
	ls ledger.LedgerService,
	pub event.Publisher,
	logger *slog.Logger,
) LoanService {
	return &loanServiceImpl{
		repo:      r,
		products:  ps,
		identity:  ids,
		ledger:    ls,
		publisher: pub,
		logger:    logger.With("component", "LoanService"),
	}
}

func (s *loanServiceImpl) Apply(ctx context.Context, productID int64, amount Money) (*Loan, error) {
	caller, err := s.identity.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.products.GetActiveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	terms, err := ComputeTerms(amount, p, now)
	if err != nil {
		return nil, err
	}

	dueDate := terms.DueDate
	newLoan := &Loan{
		UserID:          caller.ID,
		ProductID:       p.ID,
		LoanRef:         NewLoanRef(now),
		PrincipalAmount: amount,
		InterestAmount:  terms.Interest,
		ProcessingFee:   terms.ProcessingFee,
		TotalPayable:    terms.TotalPayable,
		AmountPaid:      0,
		Status:          StatusPending,
		DueDate:         &dueDate,
	}

	created, err := s.repo.CreateLoan(ctx, newLoan)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan application", "user_id", caller.ID, "error", err)
		return nil, fmt.Errorf("%w: failed to save loan application: %v", apperrors.ErrInternalServer, err)
	}

	s.logger.InfoContext(ctx, "Loan application submitted", "loan_ref", created.LoanRef, "user_id", caller.ID, "principal", amount)
	return created, nil
}

func (s *loanServiceImpl) CreateDisbursed(ctx context.Context, customerID string, productID int64, principal Money, disbursementRef, notes string) (*Loan, error) {
	caller, err := s.identity.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	disbursementRef = strings.TrimSpace(disbursementRef)
	if len(disbursementRef) < 5 {
		return nil, fmt.Errorf("%w: disbursement reference must be at least 5 characters", apperrors.ErrValidation)
	}

	customer, err := s.identity.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	p, err := s.products.GetActiveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.DisbursementRefExists(ctx, disbursementRef)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check disbursement reference: %v", apperrors.ErrInternalServer, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: this disbursement reference has already been used for another loan", apperrors.ErrConflict)
	}

	now := time.Now()
	terms, err := ComputeTerms(principal, p, now)
	if err != nil {
		return nil, err
	}

	dueDate := terms.DueDate
	disbursedBy := caller.ID
	newLoan := &Loan{
		UserID:          customer.ID,
		ProductID:       p.ID,
		LoanRef:         NewLoanRef(now),
		PrincipalAmount: principal,
		InterestAmount:  terms.Interest,
		ProcessingFee:   terms.ProcessingFee,
		TotalPayable:    terms.TotalPayable,
		AmountPaid:      0,
		Status:          StatusActive,
		DisbursementRef: &disbursementRef,
		DisbursedAt:     &now,
		DisbursedBy:     &disbursedBy,
		DueDate:         &dueDate,
		Notes:           notes,
	}

	created, err := s.repo.CreateLoan(ctx, newLoan)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: this disbursement reference has already been used for another loan", apperrors.ErrConflict)
		}
		monitoring.RecordLoanDecision("create_disbursed", "failure")
		s.logger.ErrorContext(ctx, "Failed to save disbursed loan", "customer_id", customer.ID, "error", err)
		return nil, fmt.Errorf("%w: failed to create loan: %v", apperrors.ErrInternalServer, err)
	}
	monitoring.RecordLoanDecision("create_disbursed", "success")

	// Best-effort from here on: the loan row is the primary record.
	s.postDisbursement(ctx, created, disbursementRef, caller.ID, customer.Email)
	s.publishApproved(ctx, created, disbursementRef, caller.ID)

	s.logger.InfoContext(ctx, "Disbursed loan created",
		"loan_ref", created.LoanRef, "customer_id", customer.ID, "principal", principal)
	return created, nil
}

func (s *loanServiceImpl) Approve(ctx context.Context, loanID int64, disbursementRef string) (approved *Loan, err error) {
	caller, err := s.identity.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	disbursementRef = strings.TrimSpace(disbursementRef)
	if disbursementRef == "" {
		monitoring.RecordLoanDecision("approve", "failure_validation")
		return nil, fmt.Errorf("%w: disbursement reference is required", apperrors.ErrValidation)
	}

	exists, err := s.repo.DisbursementRefExists(ctx, disbursementRef)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check disbursement reference: %v", apperrors.ErrInternalServer, err)
	}
	if exists {
		monitoring.RecordLoanDecision("approve", "failure_conflict")
		return nil, fmt.Errorf("%w: this M-Pesa reference has already been used for another loan", apperrors.ErrConflict)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.GetLoanForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			monitoring.RecordLoanDecision("approve", "failure_not_found")
			return nil, fmt.Errorf("%w: loan %d not found", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("%w: failed to load loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	if err = l.CanApprove(); err != nil {
		monitoring.RecordLoanDecision("approve", "failure_state")
		return nil, err
	}

	now := time.Now()
	if err = s.repo.ApproveLoanInTx(ctx, tx, loanID, disbursementRef, caller.ID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			monitoring.RecordLoanDecision("approve", "failure_conflict")
			return nil, fmt.Errorf("%w: this M-Pesa reference has already been used for another loan", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("%w: failed to approve loan: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}
	monitoring.RecordLoanDecision("approve", "success")

	l.Status = StatusActive
	l.DisbursementRef = &disbursementRef
	l.DisbursedAt = &now
	disbursedBy := caller.ID
	l.DisbursedBy = &disbursedBy

	// Ledger posting and event publishing happen after the commit and do
	// not roll back the approval when they fail.
	s.postDisbursement(ctx, l, disbursementRef, caller.ID, "")
	s.publishApproved(ctx, l, disbursementRef, caller.ID)

	s.logger.InfoContext(ctx, "Loan approved and disbursed", "loan_ref", l.LoanRef, "loan_id", loanID, "approved_by", caller.ID)
	return l, nil
}

func (s *loanServiceImpl) Reject(ctx context.Context, loanID int64, reason string) (err error) {
	caller, err := s.identity.RequireAdmin(ctx)
	if err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		monitoring.RecordLoanDecision("reject", "failure_validation")
		return fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.GetLoanForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			monitoring.RecordLoanDecision("reject", "failure_not_found")
			return fmt.Errorf("%w: loan %d not found", apperrors.ErrNotFound, loanID)
		}
		return fmt.Errorf("%w: failed to load loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	if err = l.CanReject(); err != nil {
		monitoring.RecordLoanDecision("reject", "failure_state")
		return err
	}

	if err = s.repo.RejectLoanInTx(ctx, tx, loanID, reason); err != nil {
		return fmt.Errorf("%w: failed to reject loan: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}
	monitoring.RecordLoanDecision("reject", "success")

	if pubErr := s.publisher.PublishLoanRejected(ctx, event.LoanRejectedEvent{
		LoanID:     loanID,
		LoanRef:    l.LoanRef,
		UserID:     l.UserID,
		Reason:     reason,
		RejectedBy: caller.ID,
		Timestamp:  time.Now(),
	}); pubErr != nil {
		s.logger.WarnContext(ctx, "Failed to publish loan rejected event", "loan_id", loanID, "error", pubErr)
	}

	s.logger.InfoContext(ctx, "Loan rejected", "loan_ref", l.LoanRef, "loan_id", loanID, "rejected_by", caller.ID)
	return nil
}

func (s *loanServiceImpl) RecordRepayment(ctx context.Context, loanID int64, amount Money, transactionRef, notes string) (result *RepaymentResult, err error) {
	caller, err := s.identity.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if amount <= 0 {
		monitoring.RecordRepayment("failure_validation")
		return nil, fmt.Errorf("%w: repayment amount must be positive", apperrors.ErrValidation)
	}
	transactionRef = strings.TrimSpace(transactionRef)
	if transactionRef == "" {
		monitoring.RecordRepayment("failure_validation")
		return nil, fmt.Errorf("%w: transaction reference is required", apperrors.ErrValidation)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.GetLoanForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			monitoring.RecordRepayment("failure_not_found")
			return nil, fmt.Errorf("%w: loan %d not found", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("%w: failed to load loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	if l.Status == StatusPaid || l.BalanceDue <= 0 {
		monitoring.RecordRepayment("failure_fully_paid")
		return nil, apperrors.ErrLoanFullyPaid
	}

	if amount > l.BalanceDue {
		monitoring.RecordRepayment("failure_overpayment")
		return nil, fmt.Errorf("%w: repayment amount (%.2f) exceeds the balance due (%.2f)",
			apperrors.ErrOverpayment, amount, l.BalanceDue)
	}

	// Checked after the loan state so a duplicate reference against a
	// missing or closed loan still reports the loan's own failure. The
	// unique index translation below backstops the race.
	exists, err := s.repo.TransactionRefExists(ctx, transactionRef)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check transaction reference: %v", apperrors.ErrInternalServer, err)
	}
	if exists {
		monitoring.RecordRepayment("failure_conflict")
		return nil, fmt.Errorf("%w: this transaction reference has already been used for another repayment", apperrors.ErrConflict)
	}

	repayment := &Repayment{
		LoanID:         loanID,
		UserID:         l.UserID,
		Amount:         amount,
		TransactionRef: transactionRef,
		PaymentDate:    time.Now(),
		RecordedBy:     caller.ID,
		PaymentMethod:  "mpesa",
		Notes:          notes,
	}

	created, err := s.repo.CreateRepaymentInTx(ctx, tx, repayment)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			monitoring.RecordRepayment("failure_conflict")
			return nil, fmt.Errorf("%w: this transaction reference has already been used for another repayment", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("%w: failed to save repayment: %v", apperrors.ErrInternalServer, err)
	}

	newAmountPaid := l.AmountPaid + amount
	newStatus := l.Status
	if newAmountPaid >= l.TotalPayable {
		newStatus = StatusPaid
	}

	if err = s.repo.UpdateLoanPaymentInTx(ctx, tx, loanID, newAmountPaid, newStatus); err != nil {
		return nil, fmt.Errorf("%w: failed to update loan balance: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}
	monitoring.RecordRepayment("success")

	principalPortion, interestPortion := l.SplitRepayment(amount)

	// Post-commit ledger entries are best-effort; a posting failure leaves
	// the repayment in place and is only logged.
	if postErr := s.ledger.PostRepayment(ctx, ledger.RepaymentPosting{
		LoanID:           loanID,
		RepaymentID:      created.ID,
		LoanRef:          l.LoanRef,
		TransactionRef:   transactionRef,
		PrincipalPortion: principalPortion,
		InterestPortion:  interestPortion,
		RecordedBy:       caller.ID,
	}); postErr != nil {
		s.logger.ErrorContext(ctx, "Failed to post repayment ledger entries", "loan_id", loanID, "repayment_id", created.ID, "error", postErr)
	}

	newBalance := l.TotalPayable - newAmountPaid
	if pubErr := s.publisher.PublishRepaymentRecorded(ctx, event.RepaymentRecordedEvent{
		LoanID:         loanID,
		LoanRef:        l.LoanRef,
		RepaymentID:    created.ID,
		Amount:         amount,
		TransactionRef: transactionRef,
		NewBalance:     newBalance,
		LoanPaidOff:    newStatus == StatusPaid,
		Timestamp:      time.Now(),
	}); pubErr != nil {
		s.logger.WarnContext(ctx, "Failed to publish repayment recorded event", "loan_id", loanID, "error", pubErr)
	}

	s.logger.InfoContext(ctx, "Repayment recorded",
		"loan_ref", l.LoanRef, "amount", amount, "new_balance", newBalance, "new_status", newStatus)

	return &RepaymentResult{
		Repayment:        created,
		NewAmountPaid:    newAmountPaid,
		NewBalance:       newBalance,
		NewStatus:        newStatus,
		PrincipalPortion: principalPortion,
		InterestPortion:  interestPortion,
	}, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	caller, err := s.identity.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	if !caller.IsAdmin() && l.UserID != caller.ID {
		return nil, fmt.Errorf("%w: loan belongs to another customer", apperrors.ErrForbidden)
	}
	return l, nil
}

func (s *loanServiceImpl) ListLoans(ctx context.Context, status *LoanStatus) ([]Loan, error) {
	caller, err := s.identity.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		loans, err := s.repo.ListLoansByUser(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list loans: %v", apperrors.ErrInternalServer, err)
		}
		return loans, nil
	}

	loans, err := s.repo.ListLoans(ctx, status)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans", "error", err)
		return nil, fmt.Errorf("%w: failed to list loans: %v", apperrors.ErrInternalServer, err)
	}
	return loans, nil
}

func (s *loanServiceImpl) ListRepayments(ctx context.Context, loanID int64) ([]Repayment, error) {
	if _, err := s.identity.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetLoanByID(ctx, loanID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan %d not found", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	repayments, err := s.repo.ListRepaymentsByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list repayments: %v", apperrors.ErrInternalServer, err)
	}
	return repayments, nil
}

func (s *loanServiceImpl) GetPortfolioSummary(ctx context.Context) (*PortfolioSummary, error) {
	if _, err := s.identity.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	loans, err := s.repo.ListLoans(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load loans for summary: %v", apperrors.ErrInternalServer, err)
	}

	summary := &PortfolioSummary{}
	now := time.Now()

	for i := range loans {
		l := &loans[i]
		switch l.Status {
		case StatusPending:
			summary.PendingCount++
			continue
		case StatusRejected:
			continue
		}

		// Everything disbursed, whether active or already paid.
		summary.AllTimeDisbursed += l.PrincipalAmount
		summary.TotalExpected += l.TotalPayable
		summary.TotalCollected += l.AmountPaid

		if l.Status == StatusActive {
			summary.ActiveCount++
			totalPayable := l.TotalPayable
			if totalPayable <= 0 {
				totalPayable = 1
			}
			summary.OutstandingPrincipal += l.BalanceDue * (l.PrincipalAmount / totalPayable)
			summary.UnrealizedInterest += l.BalanceDue * (l.InterestAmount / totalPayable)
			if l.IsOverdue(now) {
				summary.OverdueCount++
			}
		}
	}

	if summary.TotalExpected > 0 {
		summary.CollectionRate = int(roundTo(summary.TotalCollected/summary.TotalExpected*100, 0))
	}
	return summary, nil
}

func (s *loanServiceImpl) postDisbursement(ctx context.Context, l *Loan, disbursementRef, recordedBy, customerEmail string) {
	if postErr := s.ledger.PostDisbursement(ctx, ledger.DisbursementPosting{
		LoanID:        l.ID,
		LoanRef:       l.LoanRef,
		Reference:     disbursementRef,
		CustomerEmail: customerEmail,
		Principal:     l.PrincipalAmount,
		RecordedBy:    recordedBy,
	}); postErr != nil {
		s.logger.ErrorContext(ctx, "Failed to post disbursement ledger entry", "loan_id", l.ID, "error", postErr)
	}
}

func (s *loanServiceImpl) publishApproved(ctx context.Context, l *Loan, disbursementRef, approvedBy string) {
	if pubErr := s.publisher.PublishLoanApproved(ctx, event.LoanApprovedEvent{
		LoanID:          l.ID,
		LoanRef:         l.LoanRef,
		UserID:          l.UserID,
		Principal:       l.PrincipalAmount,
		DisbursementRef: disbursementRef,
		ApprovedBy:      approvedBy,
		Timestamp:       time.Now(),
	}); pubErr != nil {
		s.logger.WarnContext(ctx, "Failed to publish loan approved event", "loan_id", l.ID, "error", pubErr)
	}
}
