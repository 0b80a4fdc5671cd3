package ledger

import "context"

type Repository interface {
	ListAccounts(ctx context.Context) ([]Account, error)

	CountAccounts(ctx context.Context) (int, error)

	CreateAccounts(ctx context.Context, accounts []Account) error

	CreateEntry(ctx context.Context, entry *Entry) (*Entry, error)

	ListEntries(ctx context.Context, limit int) ([]Entry, error)

	// SumCreditsByAccount returns the total amount of all entries crediting
	// the given account since the beginning of time.
	SumCreditsByAccount(ctx context.Context, accountID int64) (float64, error)

	ListEntriesByLoan(ctx context.Context, loanID int64) ([]Entry, error)
}
