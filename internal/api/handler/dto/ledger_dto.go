package dto

import (
	"strconv"
	"time"

	"easytap/internal/domain/ledger"
	"easytap/internal/domain/loan"
)

type LedgerEntryResponse struct {
	ID              string    `json:"id"`
	Amount          string    `json:"amount"`
	DebitAccountID  string    `json:"debitAccountId"`
	CreditAccountID string    `json:"creditAccountId"`
	Description     string    `json:"description"`
	RecordedBy      string    `json:"recordedBy"`
	RelatedLoanID   *string   `json:"relatedLoanId,omitempty"`
	TransactionDate time.Time `json:"transactionDate"`
}

func NewLedgerEntryResponse(e *ledger.Entry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:              strconv.FormatInt(e.ID, 10),
		Amount:          formatMoney(e.Amount),
		DebitAccountID:  strconv.FormatInt(e.DebitAccountID, 10),
		CreditAccountID: strconv.FormatInt(e.CreditAccountID, 10),
		Description:     e.Description,
		RecordedBy:      e.RecordedBy,
		TransactionDate: e.TransactionDate,
	}
	if e.RelatedLoanID != nil {
		id := strconv.FormatInt(*e.RelatedLoanID, 10)
		resp.RelatedLoanID = &id
	}
	return resp
}

func NewLedgerEntryListResponse(entries []ledger.Entry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = NewLedgerEntryResponse(&entries[i])
	}
	return out
}

type OverviewResponse struct {
	AllTimeDisbursed     string `json:"allTimeDisbursed"`
	OutstandingPrincipal string `json:"outstandingPrincipal"`
	UnrealizedInterest   string `json:"unrealizedInterest"`
	TotalExpected        string `json:"totalExpected"`
	TotalCollected       string `json:"totalCollected"`
	CollectionRate       int    `json:"collectionRate"`
	ActiveLoans          int    `json:"activeLoans"`
	PendingApplications  int    `json:"pendingApplications"`
	OverdueLoans         int    `json:"overdueLoans"`
	RealizedInterest     string `json:"realizedInterest"`
	RealizedFees         string `json:"realizedFees"`
}

func NewOverviewResponse(p *loan.PortfolioSummary, r *ledger.RevenueSummary) OverviewResponse {
	resp := OverviewResponse{
		AllTimeDisbursed:     formatMoney(p.AllTimeDisbursed),
		OutstandingPrincipal: formatMoney(p.OutstandingPrincipal),
		UnrealizedInterest:   formatMoney(p.UnrealizedInterest),
		TotalExpected:        formatMoney(p.TotalExpected),
		TotalCollected:       formatMoney(p.TotalCollected),
		CollectionRate:       p.CollectionRate,
		ActiveLoans:          p.ActiveCount,
		PendingApplications:  p.PendingCount,
		OverdueLoans:         p.OverdueCount,
	}
	if r != nil {
		resp.RealizedInterest = formatMoney(r.RealizedInterest)
		resp.RealizedFees = formatMoney(r.RealizedFees)
	}
	return resp
}
