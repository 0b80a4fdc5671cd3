package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"easytap/internal/api/handler/dto"
	"easytap/internal/domain/identity"
	"easytap/internal/domain/ledger"
	"easytap/internal/domain/loan"
	"easytap/internal/pkg/apperrors"
)

type LedgerHandler struct {
	ledgerService ledger.LedgerService
	loanService   loan.LoanService
	identity      identity.Service
	logger        *slog.Logger
}

func NewLedgerHandler(ls ledger.LedgerService, loanSvc loan.LoanService, ids identity.Service, l *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ls,
		loanService:   loanSvc,
		identity:      ids,
		logger:        l.With("component", "LedgerHandler"),
	}
}

// ListEntries returns recent ledger entries.
//
// @Summary List ledger entries
// @Description Returns the most recent double-entry ledger postings, or the full posting history of one loan when loanId is given. Requires the admin role.
// @Tags Ledger
// @Produce json
// @Param limit query int false "Maximum entries to return (default 50)"
// @Param loanId query int false "Restrict to postings related to this loan"
// @Success 200 {array} dto.LedgerEntryResponse "Entries"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /ledger/entries [get]
// @Security BearerAuth
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	if _, err := h.identity.RequireAdmin(r.Context()); err != nil {
		respondError(w, err)
		return
	}

	if raw := r.URL.Query().Get("loanId"); raw != "" {
		loanID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || loanID <= 0 {
			respondError(w, fmt.Errorf("%w: loanId must be a positive integer", apperrors.ErrInvalidArgument))
			return
		}

		entries, err := h.ledgerService.ListEntriesForLoan(r.Context(), loanID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, dto.NewLedgerEntryListResponse(entries))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, fmt.Errorf("%w: limit must be a positive integer", apperrors.ErrInvalidArgument))
			return
		}
		limit = parsed
	}

	entries, err := h.ledgerService.ListEntries(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLedgerEntryListResponse(entries))
}

// GetOverview returns the portfolio and revenue summary.
//
// @Summary Portfolio overview
// @Description Aggregates the lending book (disbursed totals, outstanding principal, collection rate, overdue count) and realized revenue. Requires the admin role.
// @Tags Ledger
// @Produce json
// @Success 200 {object} dto.OverviewResponse "Overview"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /overview [get]
// @Security BearerAuth
func (h *LedgerHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.loanService.GetPortfolioSummary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	revenue, err := h.ledgerService.GetRevenueSummary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to build revenue summary, returning portfolio only", "error", err)
		revenue = nil
	}

	respondJSON(w, http.StatusOK, dto.NewOverviewResponse(portfolio, revenue))
}
