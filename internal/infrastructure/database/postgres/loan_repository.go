package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"easytap/internal/domain/loan"
	"easytap/internal/infrastructure/monitoring"
	"easytap/internal/pkg/apperrors"
)

// loanColumns is the shared projection: balance_due is always derived from
// total_payable and amount_paid, never stored.
const loanColumns = `
    id, user_id, product_id, loan_ref, principal_amount, interest_amount,
    processing_fee, total_payable, amount_paid,
    total_payable - amount_paid AS balance_due,
    status, disbursement_ref, disbursed_at, disbursed_by, due_date,
    rejection_reason, notes, created_at, updated_at`

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

var _ loan.Repository = (*LoanRepository)(nil)

func (r *LoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	sql := `
        INSERT INTO loans (user_id, product_id, loan_ref, principal_amount, interest_amount,
            processing_fee, total_payable, amount_paid, status, disbursement_ref,
            disbursed_at, disbursed_by, due_date, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
        RETURNING ` + loanColumns

	status := "success"
	startTime := time.Now()

	var created loan.Loan
	err := r.db.QueryRow(ctx, sql,
		newLoan.UserID, newLoan.ProductID, newLoan.LoanRef, newLoan.PrincipalAmount,
		newLoan.InterestAmount, newLoan.ProcessingFee, newLoan.TotalPayable,
		newLoan.AmountPaid, newLoan.Status, newLoan.DisbursementRef,
		newLoan.DisbursedAt, newLoan.DisbursedBy, newLoan.DueDate, newLoan.Notes,
	).Scan(loanFields(&created)...)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CreateLoan", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "loan_ref", newLoan.LoanRef, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID, "loan_ref", created.LoanRef)
	return &created, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	status := "success"
	startTime := time.Now()

	var l loan.Loan
	err := r.db.QueryRow(ctx, query, loanID).Scan(loanFields(&l)...)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &l, nil
}

func (r *LoanRepository) ListLoans(ctx context.Context, status *loan.LoanStatus) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanLoans(ctx, rows)
}

func (r *LoanRepository) ListLoansByUser(ctx context.Context, userID string) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loans by user", "user_id", userID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanLoans(ctx, rows)
}

func (r *LoanRepository) DisbursementRefExists(ctx context.Context, ref string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM loans WHERE disbursement_ref = $1)`
	if err := r.db.QueryRow(ctx, query, ref).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check disbursement reference", "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *LoanRepository) TransactionRefExists(ctx context.Context, ref string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM repayments WHERE transaction_ref = $1)`
	if err := r.db.QueryRow(ctx, query, ref).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check transaction reference", "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *LoanRepository) ListOverdueActiveLoans(ctx context.Context, asOf time.Time) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + `
        FROM loans
        WHERE status = $1 AND due_date < $2 AND total_payable - amount_paid > 0
        ORDER BY due_date ASC`

	rows, err := r.db.Query(ctx, query, loan.StatusActive, asOf)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query overdue loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanLoans(ctx, rows)
}

func (r *LoanRepository) ListRepaymentsByLoan(ctx context.Context, loanID int64) ([]loan.Repayment, error) {
	query := `
        SELECT id, loan_id, user_id, amount, transaction_ref, payment_date,
               recorded_by, payment_method, notes, created_at
        FROM repayments
        WHERE loan_id = $1
        ORDER BY payment_date DESC`

	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query repayments", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	repayments := make([]loan.Repayment, 0)
	for rows.Next() {
		var rp loan.Repayment
		err := rows.Scan(
			&rp.ID, &rp.LoanID, &rp.UserID, &rp.Amount, &rp.TransactionRef,
			&rp.PaymentDate, &rp.RecordedBy, &rp.PaymentMethod, &rp.Notes, &rp.CreatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan repayment row", "loan_id", loanID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		repayments = append(repayments, rp)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating repayment rows", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return repayments, nil
}

func (r *LoanRepository) GetLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	var l loan.Loan
	err := tx.QueryRow(ctx, query, loanID).Scan(loanFields(&l)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found for update", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock loan row", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &l, nil
}

func (r *LoanRepository) ApproveLoanInTx(ctx context.Context, tx pgx.Tx, loanID int64, disbursementRef, disbursedBy string, disbursedAt time.Time) error {
	sql := `
        UPDATE loans
        SET status = $1, disbursement_ref = $2, disbursed_by = $3, disbursed_at = $4, updated_at = NOW()
        WHERE id = $5`

	cmdTag, err := tx.Exec(ctx, sql, loan.StatusActive, disbursementRef, disbursedBy, disbursedAt, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to approve loan", "loan_id", loanID, "error", err)
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Loan approval affected zero rows", "loan_id", loanID)
		return fmt.Errorf("%w: loan approval affected zero rows", apperrors.ErrDatabase)
	}
	r.logger.InfoContext(ctx, "Loan marked active in DB", "loan_id", loanID)
	return nil
}

func (r *LoanRepository) RejectLoanInTx(ctx context.Context, tx pgx.Tx, loanID int64, reason string) error {
	sql := `
        UPDATE loans
        SET status = $1, rejection_reason = $2, updated_at = NOW()
        WHERE id = $3`

	cmdTag, err := tx.Exec(ctx, sql, loan.StatusRejected, reason, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to reject loan", "loan_id", loanID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Loan rejection affected zero rows", "loan_id", loanID)
		return fmt.Errorf("%w: loan rejection affected zero rows", apperrors.ErrDatabase)
	}
	r.logger.InfoContext(ctx, "Loan marked rejected in DB", "loan_id", loanID)
	return nil
}

func (r *LoanRepository) CreateRepaymentInTx(ctx context.Context, tx pgx.Tx, rp *loan.Repayment) (*loan.Repayment, error) {
	sql := `
        INSERT INTO repayments (loan_id, user_id, amount, transaction_ref, payment_date,
            recorded_by, payment_method, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING id, loan_id, user_id, amount, transaction_ref, payment_date,
            recorded_by, payment_method, notes, created_at`

	var created loan.Repayment
	err := tx.QueryRow(ctx, sql,
		rp.LoanID, rp.UserID, rp.Amount, rp.TransactionRef, rp.PaymentDate,
		rp.RecordedBy, rp.PaymentMethod, rp.Notes,
	).Scan(
		&created.ID, &created.LoanID, &created.UserID, &created.Amount,
		&created.TransactionRef, &created.PaymentDate, &created.RecordedBy,
		&created.PaymentMethod, &created.Notes, &created.CreatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert repayment", "loan_id", rp.LoanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Repayment created in DB", "repayment_id", created.ID, "loan_id", created.LoanID)
	return &created, nil
}

func (r *LoanRepository) UpdateLoanPaymentInTx(ctx context.Context, tx pgx.Tx, loanID int64, newAmountPaid loan.Money, newStatus loan.LoanStatus) error {
	sql := `UPDATE loans SET amount_paid = $1, status = $2, updated_at = NOW() WHERE id = $3`

	cmdTag, err := tx.Exec(ctx, sql, newAmountPaid, newStatus, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan payment state", "loan_id", loanID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Loan payment update affected zero rows", "loan_id", loanID)
		return fmt.Errorf("%w: loan payment update affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}

func (r *LoanRepository) scanLoans(ctx context.Context, rows pgx.Rows) ([]loan.Loan, error) {
	loans := make([]loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		if err := rows.Scan(loanFields(&l)...); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return loans, nil
}

// loanFields matches loanColumns ordering.
func loanFields(l *loan.Loan) []any {
	return []any{
		&l.ID, &l.UserID, &l.ProductID, &l.LoanRef, &l.PrincipalAmount,
		&l.InterestAmount, &l.ProcessingFee, &l.TotalPayable, &l.AmountPaid,
		&l.BalanceDue, &l.Status, &l.DisbursementRef, &l.DisbursedAt,
		&l.DisbursedBy, &l.DueDate, &l.RejectionReason, &l.Notes,
		&l.CreatedAt, &l.UpdatedAt,
	}
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
