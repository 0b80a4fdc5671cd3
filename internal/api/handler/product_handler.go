package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"easytap/internal/api/handler/dto"
	"easytap/internal/domain/identity"
	"easytap/internal/domain/product"
	"easytap/internal/pkg/apperrors"
)

type ProductHandler struct {
	service  product.ProductService
	identity identity.Service
	logger   *slog.Logger
}

func NewProductHandler(s product.ProductService, ids identity.Service, l *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  s,
		identity: ids,
		logger:   l.With("component", "ProductHandler"),
	}
}

func getProductIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "productID")
	if idStr == "" {
		return 0, fmt.Errorf("productID not found in URL path")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// CreateProduct creates a new loan product.
//
// @Summary Create a loan product
// @Description Creates a loan product with a flat interest rate, duration and processing fee. Requires the admin role.
// @Tags Products
// @Accept json
// @Produce json
// @Param request body dto.CreateProductRequest true "Product payload"
// @Success 201 {object} dto.ProductResponse "Product created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /products [post]
// @Security BearerAuth
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := h.identity.RequireAdmin(r.Context()); err != nil {
		respondError(w, err)
		return
	}

	var req dto.CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateProduct(r.Context(), req.Name, req.Description, req.InterestRate, req.DurationDays, req.ProcessingFee, req.PenaltyRate)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewProductResponse(created))
}

// GetProduct retrieves one loan product.
//
// @Summary Retrieve a loan product
// @Tags Products
// @Produce json
// @Param productID path int true "Product ID"
// @Success 200 {object} dto.ProductResponse "Product details"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Router /products/{productID} [get]
// @Security BearerAuth
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := getProductIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	p, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewProductResponse(p))
}

// ListProducts lists loan products.
//
// @Summary List loan products
// @Description Customers see only active products; admins see everything.
// @Tags Products
// @Produce json
// @Success 200 {array} dto.ProductResponse "Products"
// @Router /products [get]
// @Security BearerAuth
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.RequireCaller(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	products, err := h.service.ListProducts(r.Context(), !caller.IsAdmin())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewProductListResponse(products))
}

// SetProductActive toggles a product's availability.
//
// @Summary Activate or deactivate a loan product
// @Description Soft-disables a product so new applications cannot use it. Products are never deleted. Requires the admin role.
// @Tags Products
// @Accept json
// @Produce json
// @Param productID path int true "Product ID"
// @Param request body dto.SetProductActiveRequest true "Activation payload"
// @Success 200 {object} map[string]string "Product updated"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Router /products/{productID}/active [put]
// @Security BearerAuth
func (h *ProductHandler) SetProductActive(w http.ResponseWriter, r *http.Request) {
	if _, err := h.identity.RequireAdmin(r.Context()); err != nil {
		respondError(w, err)
		return
	}

	productID, err := getProductIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.SetProductActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.SetProductActive(r.Context(), productID, req.IsActive); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product updated"})
}
