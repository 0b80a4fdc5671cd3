package product

import (
	"fmt"
	"strings"
	"time"

	"easytap/internal/pkg/apperrors"
)

// LoanProduct is a reusable loan template. InterestRate is a flat percentage
// applied once over the full term; PenaltyRate is stored but not used by any
// computation yet. Products are never deleted, only soft-disabled.
type LoanProduct struct {
	ID            int64
	Name          string
	Description   string
	InterestRate  float64
	DurationDays  int
	ProcessingFee float64
	PenaltyRate   float64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewLoanProduct(name, description string, interestRate float64, durationDays int, processingFee, penaltyRate float64) (*LoanProduct, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
	}
	if interestRate < 0 {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrValidation)
	}
	if durationDays <= 0 {
		return nil, fmt.Errorf("%w: duration days must be positive", apperrors.ErrValidation)
	}
	if processingFee < 0 {
		return nil, fmt.Errorf("%w: processing fee cannot be negative", apperrors.ErrValidation)
	}
	if penaltyRate < 0 {
		return nil, fmt.Errorf("%w: penalty rate cannot be negative", apperrors.ErrValidation)
	}

	return &LoanProduct{
		Name:          name,
		Description:   strings.TrimSpace(description),
		InterestRate:  interestRate,
		DurationDays:  durationDays,
		ProcessingFee: processingFee,
		PenaltyRate:   penaltyRate,
		IsActive:      true,
	}, nil
}
