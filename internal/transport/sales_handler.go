package transport

import (
	"errors"
	"net/http"

	"stockroom/internal/domain"
	"stockroom/internal/middleware"
	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SalesHandler handles HTTP requests for checkout and the read-only
// reporting endpoints
type SalesHandler struct {
	sales  service.SalesService
	logger *zap.Logger
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(sales service.SalesService, logger *zap.Logger) *SalesHandler {
	return &SalesHandler{
		sales:  sales,
		logger: logger,
	}
}

// RegisterRoutes registers the sales and reporting routes
func (h *SalesHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sales", h.CreateSale)
	r.Get("/sales", h.ListSales)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/users", h.ListUsers)
	r.Get("/expenses", h.ExpensesByCategory)
}

// CreateSale handles POST /sales. A sale decrements size-level stock; the
// request is rejected with 400 when stock is insufficient.
func (h *SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sale validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sale, err := h.sales.CreateSale(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrSizeNotFound):
			middleware.RespondWithError(w, http.StatusBadRequest, "product size not found")
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusBadRequest, "insufficient stock for requested quantity")
		case errors.Is(err, service.ErrInvalidPaymentMethod), errors.Is(err, service.ErrEmptySale):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create sale", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create sale")
		}
		return
	}

	h.logger.Info("Sale created",
		zap.String("sale_id", sale.SaleID.String()),
		zap.Float64("total_amount", sale.TotalAmount),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, sale)
}

// ListSales handles GET /sales
func (h *SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListSales(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sales", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// Dashboard handles GET /dashboard
func (h *SalesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.sales.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard metrics", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard metrics")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, metrics)
}

// ListUsers handles GET /users
func (h *SalesHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.sales.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, users)
}

// ExpensesByCategory handles GET /expenses
func (h *SalesHandler) ExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.sales.ExpensesByCategory(r.Context())
	if err != nil {
		h.logger.Error("Failed to summarize expenses", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to summarize expenses")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summaries)
}
