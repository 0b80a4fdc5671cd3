package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"easytap/internal/domain/ledger"
	"easytap/internal/pkg/apperrors"
)

const entryColumns = `
    id, amount, debit_account_id, credit_account_id, description, recorded_by,
    related_loan_id, related_repayment_id, transaction_date, created_at`

type LedgerRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewLedgerRepository(db DBPool, logger *slog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, logger: logger.With("component", "LedgerRepository")}
}

var _ ledger.Repository = (*LedgerRepository)(nil)

func (r *LedgerRepository) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	query := `SELECT id, name, code, type, created_at FROM chart_of_accounts ORDER BY code ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query ledger accounts", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	accounts := make([]ledger.Account, 0)
	for rows.Next() {
		var a ledger.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Code, &a.Type, &a.CreatedAt); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan ledger account row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating ledger account rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return accounts, nil
}

func (r *LedgerRepository) CountAccounts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM chart_of_accounts`).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count ledger accounts", "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *LedgerRepository) CreateAccounts(ctx context.Context, accounts []ledger.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	sql := `
        INSERT INTO chart_of_accounts (name, code, type, created_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (code) DO NOTHING`

	for _, a := range accounts {
		if _, err := r.db.Exec(ctx, sql, a.Name, a.Code, a.Type); err != nil {
			r.logger.ErrorContext(ctx, "Failed to insert ledger account", "code", a.Code, "error", err)
			return translateDBError(err, r.logger)
		}
	}

	r.logger.InfoContext(ctx, "Ledger accounts created", "count", len(accounts))
	return nil
}

func (r *LedgerRepository) CreateEntry(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	sql := `
        INSERT INTO ledger_entries (amount, debit_account_id, credit_account_id, description,
            recorded_by, related_loan_id, related_repayment_id, transaction_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING ` + entryColumns

	var created ledger.Entry
	err := r.db.QueryRow(ctx, sql,
		entry.Amount, entry.DebitAccountID, entry.CreditAccountID, entry.Description,
		entry.RecordedBy, entry.RelatedLoanID, entry.RelatedRepaymentID, entry.TransactionDate,
	).Scan(entryFields(&created)...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert ledger entry", "description", entry.Description, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	return &created, nil
}

func (r *LedgerRepository) ListEntries(ctx context.Context, limit int) ([]ledger.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries ORDER BY transaction_date DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query ledger entries", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanEntries(ctx, rows)
}

func (r *LedgerRepository) SumCreditsByAccount(ctx context.Context, accountID int64) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0.00) FROM ledger_entries WHERE credit_account_id = $1`
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&total); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.ErrorContext(ctx, "Failed to sum ledger credits", "account_id", accountID, "error", err)
			return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
	}
	return total, nil
}

func (r *LedgerRepository) ListEntriesByLoan(ctx context.Context, loanID int64) ([]ledger.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE related_loan_id = $1 ORDER BY transaction_date ASC`

	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query ledger entries by loan", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanEntries(ctx, rows)
}

func (r *LedgerRepository) scanEntries(ctx context.Context, rows pgx.Rows) ([]ledger.Entry, error) {
	entries := make([]ledger.Entry, 0)
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(entryFields(&e)...); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan ledger entry row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating ledger entry rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return entries, nil
}

func entryFields(e *ledger.Entry) []any {
	return []any{
		&e.ID, &e.Amount, &e.DebitAccountID, &e.CreditAccountID, &e.Description,
		&e.RecordedBy, &e.RelatedLoanID, &e.RelatedRepaymentID, &e.TransactionDate, &e.CreatedAt,
	}
}
