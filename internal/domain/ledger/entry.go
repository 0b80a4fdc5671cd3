package ledger

import "time"

// Entry is an immutable double-entry posting: one amount moved from the
// credit account to the debit account. Entries are never updated or deleted.
type Entry struct {
	ID                 int64
	Amount             float64
	DebitAccountID     int64
	CreditAccountID    int64
	Description        string
	RecordedBy         string
	RelatedLoanID      *int64
	RelatedRepaymentID *int64
	TransactionDate    time.Time
	CreatedAt          time.Time
}
