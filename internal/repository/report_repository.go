package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stockroom/internal/domain"

	"github.com/google/uuid"
)

// Days of history included in the dashboard summaries
const summaryWindowDays = 30

// Number of products in the dashboard popularity ranking
const popularProductCount = 4

// ReportRepository serves the read-only projections: dashboard aggregates,
// users and expense summaries. Nothing here is ever written by the API.
type ReportRepository interface {
	Dashboard(ctx context.Context) (*domain.DashboardMetrics, error)
	Users(ctx context.Context) ([]domain.User, error)
	ExpensesByCategory(ctx context.Context) ([]domain.ExpenseByCategorySummary, error)
}

type reportRepository struct {
	db          *sql.DB
	productRepo ProductRepository
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db, productRepo: NewProductRepository(db)}
}

func (r *reportRepository) Dashboard(ctx context.Context) (*domain.DashboardMetrics, error) {
	popular, err := r.popularProducts(ctx)
	if err != nil {
		return nil, err
	}

	salesSummary, err := r.salesSummary(ctx)
	if err != nil {
		return nil, err
	}

	purchaseSummary, err := r.purchaseSummary(ctx)
	if err != nil {
		return nil, err
	}

	expenseSummary, err := r.expenseSummary(ctx)
	if err != nil {
		return nil, err
	}

	byCategory, err := r.ExpensesByCategory(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardMetrics{
		PopularProducts:          popular,
		SalesSummary:             salesSummary,
		PurchaseSummary:          purchaseSummary,
		ExpenseSummary:           expenseSummary,
		ExpenseByCategorySummary: byCategory,
	}, nil
}

// popularProducts ranks products by total units sold
func (r *reportRepository) popularProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT product_id
		FROM sale_items
		GROUP BY product_id
		ORDER BY SUM(quantity) DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, popularProductCount)
	if err != nil {
		return nil, fmt.Errorf("failed to rank popular products: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan popular product id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating popular products: %w", err)
	}

	products := []domain.Product{}
	for _, id := range ids {
		product, err := r.productRepo.FindByID(ctx, id)
		if err != nil {
			// Ranked product deleted since its last sale; skip it.
			if err == ErrProductNotFound {
				continue
			}
			return nil, err
		}
		products = append(products, *product)
	}

	return products, nil
}

func (r *reportRepository) salesSummary(ctx context.Context) ([]domain.SalesSummary, error) {
	query := `
		SELECT date_trunc('day', date) AS day, SUM(total_amount)
		FROM sales
		WHERE date > NOW() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.QueryContext(ctx, query, summaryWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sales: %w", err)
	}
	defer rows.Close()

	summaries := []domain.SalesSummary{}
	for rows.Next() {
		var s domain.SalesSummary
		if err := rows.Scan(&s.Date, &s.TotalValue); err != nil {
			return nil, fmt.Errorf("failed to scan sales summary: %w", err)
		}
		s.SalesSummaryID = uuid.New()
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales summary: %w", err)
	}

	attachChange(summaries)
	return summaries, nil
}

func (r *reportRepository) purchaseSummary(ctx context.Context) ([]domain.PurchaseSummary, error) {
	query := `
		SELECT date_trunc('day', date) AS day, SUM(unit_cost * quantity)
		FROM purchases
		WHERE date > NOW() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.QueryContext(ctx, query, summaryWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize purchases: %w", err)
	}
	defer rows.Close()

	summaries := []domain.PurchaseSummary{}
	for rows.Next() {
		var s domain.PurchaseSummary
		if err := rows.Scan(&s.Date, &s.TotalPurchased); err != nil {
			return nil, fmt.Errorf("failed to scan purchase summary: %w", err)
		}
		s.PurchaseSummaryID = uuid.New()
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase summary: %w", err)
	}

	for i := range summaries {
		if i == 0 || summaries[i-1].TotalPurchased == 0 {
			continue
		}
		change := (summaries[i].TotalPurchased - summaries[i-1].TotalPurchased) / summaries[i-1].TotalPurchased * 100
		summaries[i].ChangePercentage = &change
	}

	return summaries, nil
}

func (r *reportRepository) expenseSummary(ctx context.Context) ([]domain.ExpenseSummary, error) {
	query := `
		SELECT date_trunc('day', date) AS day, SUM(amount)
		FROM expenses
		WHERE date > NOW() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.QueryContext(ctx, query, summaryWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	defer rows.Close()

	summaries := []domain.ExpenseSummary{}
	for rows.Next() {
		var s domain.ExpenseSummary
		if err := rows.Scan(&s.Date, &s.TotalExpenses); err != nil {
			return nil, fmt.Errorf("failed to scan expense summary: %w", err)
		}
		s.ExpenseSummaryID = uuid.New()
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense summary: %w", err)
	}

	return summaries, nil
}

func (r *reportRepository) Users(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, name, email FROM users ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.UserID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (r *reportRepository) ExpensesByCategory(ctx context.Context) ([]domain.ExpenseByCategorySummary, error) {
	query := `
		SELECT category, SUM(amount)::text, MAX(date)
		FROM expenses
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses by category: %w", err)
	}
	defer rows.Close()

	summaries := []domain.ExpenseByCategorySummary{}
	for rows.Next() {
		var s domain.ExpenseByCategorySummary
		if err := rows.Scan(&s.Category, &s.Amount, &s.Date); err != nil {
			return nil, fmt.Errorf("failed to scan expense category summary: %w", err)
		}
		s.ExpenseByCategorySummaryID = uuid.New()
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense category summary: %w", err)
	}

	return summaries, nil
}

// attachChange fills day-over-day percentage change on sales summaries
func attachChange(summaries []domain.SalesSummary) {
	for i := range summaries {
		if i == 0 || summaries[i-1].TotalValue == 0 {
			continue
		}
		change := (summaries[i].TotalValue - summaries[i-1].TotalValue) / summaries[i-1].TotalValue * 100
		summaries[i].ChangePercentage = &change
	}
}
