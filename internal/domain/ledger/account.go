package ledger

import (
	"strings"
	"time"
)

type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Account is one entry in the chart of accounts.
type Account struct {
	ID        int64
	Name      string
	Code      string
	Type      AccountType
	CreatedAt time.Time
}

// DefaultAccounts is the chart seeded at bootstrap when the table is empty.
func DefaultAccounts() []Account {
	return []Account{
		{Name: "Cash on Hand", Code: "1001", Type: AccountTypeAsset},
		{Name: "Loan Portfolio", Code: "1002", Type: AccountTypeAsset},
		{Name: "Interest Income", Code: "4001", Type: AccountTypeRevenue},
		{Name: "Fee Income", Code: "4002", Type: AccountTypeRevenue},
		{Name: "Penalty Income", Code: "4003", Type: AccountTypeRevenue},
	}
}

// AccountSet holds the three posting targets every lending entry needs.
type AccountSet struct {
	Cash       *Account
	Receivable *Account
	Income     *Account
}

// ResolveAccounts picks the cash, receivable and income accounts by
// case-insensitive substring match on account names, falling back
// positionally to the first two accounts when nothing matches. Renaming an
// account silently changes where entries land; callers should prefer seeding
// the default chart and leaving the names alone.
func ResolveAccounts(accounts []Account) AccountSet {
	var set AccountSet
	if len(accounts) == 0 {
		return set
	}

	set.Cash = findAccount(accounts, "cash", "bank", "mpesa")
	set.Receivable = findAccount(accounts, "receivable", "portfolio", "loan")
	set.Income = findAccount(accounts, "interest", "income", "revenue")

	if set.Cash == nil {
		set.Cash = &accounts[0]
	}
	if set.Receivable == nil {
		if len(accounts) > 1 {
			set.Receivable = &accounts[1]
		} else {
			set.Receivable = &accounts[0]
		}
	}
	if set.Income == nil {
		// No income account resolvable: interest postings credit the
		// receivable account instead.
		set.Income = set.Receivable
	}
	return set
}

func findAccount(accounts []Account, needles ...string) *Account {
	for i := range accounts {
		lower := strings.ToLower(accounts[i].Name)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return &accounts[i]
			}
		}
	}
	return nil
}
