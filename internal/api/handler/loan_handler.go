package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"easytap/internal/api/handler/dto"
	"easytap/internal/domain/loan"
	"easytap/internal/pkg/apperrors"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized."
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrLoanState):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrOverpayment), errors.Is(err, apperrors.ErrLoanFullyPaid):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getLoanIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "loanID")
	if idStr == "" {
		return 0, fmt.Errorf("loanID not found in URL path")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// Apply handles a self-service loan application.
//
// @Summary Apply for a loan
// @Description Submits a loan application for the authenticated customer against an active product. The loan enters the pending state with computed terms.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.ApplyLoanRequest true "Loan application payload"
// @Success 201 {object} dto.LoanResponse "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/apply [post]
// @Security BearerAuth
func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.Apply(r.Context(), req.ProductID, req.AmountValue())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(created))
}

// CreateDisbursed creates an already-disbursed loan for a customer.
//
// @Summary Create a disbursed loan
// @Description Creates an active loan for an existing customer with the disbursement already made outside the system. Requires the admin role.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateDisbursedLoanRequest true "Disbursed loan payload"
// @Success 201 {object} dto.LoanResponse "Loan created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 409 {object} dto.ErrorResponse "Disbursement reference already used"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateDisbursed(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDisbursedLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateDisbursed(r.Context(), req.CustomerID, req.ProductID, req.PrincipalValue(), req.DisbursementRef, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(created))
}

// GetLoan retrieves one loan.
//
// @Summary Retrieve loan details
// @Description Returns a loan by ID. Customers can only see their own loans; admins can see any.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.LoanResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 403 {object} dto.ErrorResponse "Loan belongs to another customer"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// ListLoans lists loans, optionally filtered by status.
//
// @Summary List loans
// @Description Admins see all loans with an optional status filter; customers see only their own loans.
// @Tags Loans
// @Produce json
// @Param status query string false "Filter by status (pending, active, rejected, paid)"
// @Success 200 {array} dto.LoanResponse "Loans"
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Router /loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	var statusFilter *loan.LoanStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := loan.LoanStatus(raw)
		switch st {
		case loan.StatusPending, loan.StatusActive, loan.StatusRejected, loan.StatusPaid:
			statusFilter = &st
		default:
			respondError(w, fmt.Errorf("%w: unknown loan status %q", apperrors.ErrInvalidArgument, raw))
			return
		}
	}

	loans, err := h.service.ListLoans(r.Context(), statusFilter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanListResponse(loans))
}

// Approve marks a pending loan active and records the disbursement.
//
// @Summary Approve and disburse a loan
// @Description Approves a pending loan, storing the external disbursement reference and posting the disbursement ledger entry. Requires the admin role.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.ApproveLoanRequest true "Approval payload"
// @Success 200 {object} dto.LoanResponse "Loan approved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan not pending or reference already used"
// @Router /loans/{loanID}/approve [post]
// @Security BearerAuth
func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.ApproveLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	approved, err := h.service.Approve(r.Context(), loanID, req.DisbursementRef)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(approved))
}

// Reject declines a pending loan.
//
// @Summary Reject a loan application
// @Description Rejects a pending loan with a mandatory reason. Requires the admin role.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.RejectLoanRequest true "Rejection payload"
// @Success 200 {object} map[string]string "Loan rejected"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan not pending"
// @Router /loans/{loanID}/reject [post]
// @Security BearerAuth
func (h *LoanHandler) Reject(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.RejectLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.Reject(r.Context(), loanID, req.Reason); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Loan rejected"})
}

// RecordRepayment applies a repayment against an active loan.
//
// @Summary Record a repayment
// @Description Records a repayment received outside the system against an active loan. Requires the admin role.
// @Tags Repayments
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.RecordRepaymentRequest true "Repayment payload"
// @Success 200 {object} dto.RepaymentResultResponse "Repayment recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request, overpayment, or loan fully paid"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Transaction reference already used"
// @Router /loans/{loanID}/repayments [post]
// @Security BearerAuth
func (h *LoanHandler) RecordRepayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.RecordRepaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	result, err := h.service.RecordRepayment(r.Context(), loanID, req.AmountValue(), req.TransactionRef, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewRepaymentResultResponse(result))
}

// ListRepayments lists the repayments recorded against a loan.
//
// @Summary List loan repayments
// @Description Returns all repayments for a loan, most recent first. Requires the admin role.
// @Tags Repayments
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {array} dto.RepaymentResponse "Repayments"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /loans/{loanID}/repayments [get]
// @Security BearerAuth
func (h *LoanHandler) ListRepayments(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	repayments, err := h.service.ListRepayments(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]dto.RepaymentResponse, len(repayments))
	for i := range repayments {
		out[i] = dto.NewRepaymentResponse(&repayments[i])
	}
	respondJSON(w, http.StatusOK, out)
}
