package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"stockroom/internal/domain"
	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockSaleRepository struct {
	sales []domain.Sale
	stock map[uuid.UUID]map[string]int
}

func newMockSaleRepository() *mockSaleRepository {
	return &mockSaleRepository{stock: make(map[uuid.UUID]map[string]int)}
}

func (m *mockSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	for _, item := range sale.SaleItems {
		sizes, ok := m.stock[item.ProductID]
		if !ok {
			return repository.ErrProductNotFound
		}
		qty, ok := sizes[item.Size]
		if !ok {
			return repository.ErrSizeNotFound
		}
		if qty < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}
	for _, item := range sale.SaleItems {
		m.stock[item.ProductID][item.Size] -= item.Quantity
	}
	m.sales = append(m.sales, *sale)
	return nil
}

func (m *mockSaleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	return append([]domain.Sale{}, m.sales...), nil
}

type mockReportRepository struct {
	metrics  domain.DashboardMetrics
	users    []domain.User
	expenses []domain.ExpenseByCategorySummary
}

func (m *mockReportRepository) Dashboard(ctx context.Context) (*domain.DashboardMetrics, error) {
	return &m.metrics, nil
}

func (m *mockReportRepository) Users(ctx context.Context) ([]domain.User, error) {
	return m.users, nil
}

func (m *mockReportRepository) ExpensesByCategory(ctx context.Context) ([]domain.ExpenseByCategorySummary, error) {
	return m.expenses, nil
}

func newSalesTestRouter() (chi.Router, *mockProductRepository, *mockSaleRepository) {
	productRepo := newMockProductRepository()
	saleRepo := newMockSaleRepository()
	sales := service.NewSalesService(saleRepo, productRepo, &mockReportRepository{})

	r := chi.NewRouter()
	NewSalesHandler(sales, zap.NewNop()).RegisterRoutes(r)
	return r, productRepo, saleRepo
}

func seedSellableProduct(productRepo *mockProductRepository, saleRepo *mockSaleRepository, price float64, size string, stock int) uuid.UUID {
	product := domain.Product{
		ProductID: uuid.New(),
		Name:      "Runner",
		Price:     price,
		Sizes:     []domain.ProductSize{{ID: uuid.New(), Size: size, StockQuantity: stock}},
	}
	productRepo.products[product.ProductID] = product
	saleRepo.stock[product.ProductID] = map[string]int{size: stock}
	return product.ProductID
}

func TestCreateSaleReturns201(t *testing.T) {
	router, productRepo, saleRepo := newSalesTestRouter()
	id := seedSellableProduct(productRepo, saleRepo, 59.90, "42", 10)

	body := `{"items":[{"productId":"` + id.String() + `","size":"42","quantity":2}],"paymentMethod":"CASH"}`
	w := doJSON(router, "POST", "/sales", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var sale domain.Sale
	if err := json.Unmarshal(w.Body.Bytes(), &sale); err != nil {
		t.Fatalf("response is not a sale: %v", err)
	}
	if sale.TotalAmount != 59.90*2 {
		t.Errorf("expected total %f, got %f", 59.90*2, sale.TotalAmount)
	}
	if len(sale.SaleItems) != 1 || sale.SaleItems[0].Price != 59.90 {
		t.Errorf("sale items should capture the unit price: %+v", sale.SaleItems)
	}
}

func TestCreateSaleInsufficientStockReturns400(t *testing.T) {
	router, productRepo, saleRepo := newSalesTestRouter()
	id := seedSellableProduct(productRepo, saleRepo, 59.90, "42", 1)

	body := `{"items":[{"productId":"` + id.String() + `","size":"42","quantity":5}],"paymentMethod":"CASH"}`
	w := doJSON(router, "POST", "/sales", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateSaleUnknownProductReturns404(t *testing.T) {
	router, _, _ := newSalesTestRouter()

	body := `{"items":[{"productId":"` + uuid.NewString() + `","size":"42","quantity":1}],"paymentMethod":"CASH"}`
	w := doJSON(router, "POST", "/sales", body)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateSaleBadPaymentMethodReturns400(t *testing.T) {
	router, productRepo, saleRepo := newSalesTestRouter()
	id := seedSellableProduct(productRepo, saleRepo, 59.90, "42", 10)

	body := `{"items":[{"productId":"` + id.String() + `","size":"42","quantity":1}],"paymentMethod":"BARTER"}`
	w := doJSON(router, "POST", "/sales", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListSalesReturnsRecordedSales(t *testing.T) {
	router, productRepo, saleRepo := newSalesTestRouter()
	id := seedSellableProduct(productRepo, saleRepo, 10, "42", 10)

	body := `{"items":[{"productId":"` + id.String() + `","size":"42","quantity":1}],"paymentMethod":"CASH"}`
	if w := doJSON(router, "POST", "/sales", body); w.Code != http.StatusCreated {
		t.Fatalf("sale failed with %d", w.Code)
	}

	w := doJSON(router, "GET", "/sales", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var sales []domain.Sale
	if err := json.Unmarshal(w.Body.Bytes(), &sales); err != nil {
		t.Fatalf("response is not a sale list: %v", err)
	}
	if len(sales) != 1 {
		t.Errorf("expected one sale, got %d", len(sales))
	}
}

func TestReportEndpointsReturn200(t *testing.T) {
	router, _, _ := newSalesTestRouter()

	for _, path := range []string{"/dashboard", "/users", "/expenses"} {
		w := doJSON(router, "GET", path, "")
		if w.Code != http.StatusOK {
			t.Errorf("expected 200 from %s, got %d", path, w.Code)
		}
	}
}
