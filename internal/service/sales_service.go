package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrEmptySale            = errors.New("a sale needs at least one item")
)

// SalesService defines the business logic for checkout and the read-only
// reporting queries
type SalesService interface {
	CreateSale(ctx context.Context, req domain.CreateSaleRequest) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
	Dashboard(ctx context.Context) (*domain.DashboardMetrics, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ExpensesByCategory(ctx context.Context) ([]domain.ExpenseByCategorySummary, error)
}

type salesService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	reportRepo  repository.ReportRepository
}

// NewSalesService creates a new instance of SalesService
func NewSalesService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	reportRepo repository.ReportRepository,
) SalesService {
	return &salesService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		reportRepo:  reportRepo,
	}
}

// CreateSale prices every requested line at the product's current price,
// computes the total and persists the sale; the repository decrements
// size-level stock in the same transaction. Sales are immutable once
// created.
func (s *salesService) CreateSale(ctx context.Context, req domain.CreateSaleRequest) (*domain.Sale, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptySale
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	sale := &domain.Sale{
		SaleID:        uuid.New(),
		Date:          time.Now().UTC(),
		PaymentMethod: req.PaymentMethod,
		SaleItems:     make([]domain.SaleItem, 0, len(req.Items)),
	}

	total := 0.0
	for _, line := range req.Items {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		if _, ok := product.StockFor(line.Size); !ok {
			return nil, repository.ErrSizeNotFound
		}

		sale.SaleItems = append(sale.SaleItems, domain.SaleItem{
			ID:        uuid.New(),
			ProductID: product.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(line.Quantity)
	}
	sale.TotalAmount = total

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *salesService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.saleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

func (s *salesService) Dashboard(ctx context.Context) (*domain.DashboardMetrics, error) {
	return s.reportRepo.Dashboard(ctx)
}

func (s *salesService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.reportRepo.Users(ctx)
}

func (s *salesService) ExpensesByCategory(ctx context.Context) ([]domain.ExpenseByCategorySummary, error) {
	return s.reportRepo.ExpensesByCategory(ctx)
}
