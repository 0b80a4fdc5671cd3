package dto

import (
	"fmt"
	"strconv"
	"time"

	"easytap/internal/domain/product"
)

type CreateProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	InterestRate  float64 `json:"interestRate"`
	DurationDays  int     `json:"durationDays"`
	ProcessingFee float64 `json:"processingFee"`
	PenaltyRate   float64 `json:"penaltyRate"`
}

func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.InterestRate < 0 {
		return fmt.Errorf("interestRate must not be negative")
	}
	if r.DurationDays <= 0 {
		return fmt.Errorf("durationDays must be positive")
	}
	if r.ProcessingFee < 0 {
		return fmt.Errorf("processingFee must not be negative")
	}
	if r.PenaltyRate < 0 {
		return fmt.Errorf("penaltyRate must not be negative")
	}
	return nil
}

type SetProductActiveRequest struct {
	IsActive bool `json:"isActive"`
}

type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	InterestRate  float64   `json:"interestRate"`
	DurationDays  int       `json:"durationDays"`
	ProcessingFee string    `json:"processingFee"`
	PenaltyRate   float64   `json:"penaltyRate"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewProductResponse(p *product.LoanProduct) ProductResponse {
	return ProductResponse{
		ID:            strconv.FormatInt(p.ID, 10),
		Name:          p.Name,
		Description:   p.Description,
		InterestRate:  p.InterestRate,
		DurationDays:  p.DurationDays,
		ProcessingFee: formatMoney(p.ProcessingFee),
		PenaltyRate:   p.PenaltyRate,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func NewProductListResponse(products []product.LoanProduct) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = NewProductResponse(&products[i])
	}
	return out
}
