package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stockroom/internal/domain"
)

var (
	ErrSizeNotFound      = errors.New("product size not found")
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")
)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	// Create persists the sale and atomically decrements size-level stock
	// for every item. Fails with ErrInsufficientStock when any decrement
	// would take a stock quantity below zero, and commits nothing.
	Create(ctx context.Context, sale *domain.Sale) error
	List(ctx context.Context) ([]domain.Sale, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Guarded decrement: the WHERE clause refuses to take stock negative,
	// so a concurrent competing sale loses cleanly instead of overdrawing.
	decrement := `
		UPDATE product_sizes
		SET stock_quantity = stock_quantity - $3
		WHERE product_id = $1 AND size = $2 AND stock_quantity >= $3
	`

	for _, item := range sale.SaleItems {
		result, err := tx.ExecContext(ctx, decrement, item.ProductID, item.Size, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			var exists bool
			err := tx.QueryRowContext(
				ctx,
				`SELECT EXISTS (SELECT 1 FROM product_sizes WHERE product_id = $1 AND size = $2)`,
				item.ProductID, item.Size,
			).Scan(&exists)
			if err != nil {
				return fmt.Errorf("failed to check product size: %w", err)
			}
			if !exists {
				return ErrSizeNotFound
			}
			return ErrInsufficientStock
		}
	}

	saleQuery := `
		INSERT INTO sales (id, date, total_amount, payment_method)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, saleQuery, sale.SaleID, sale.Date, sale.TotalAmount, sale.PaymentMethod); err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, size, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range sale.SaleItems {
		if _, err := tx.ExecContext(ctx, itemQuery, item.ID, sale.SaleID, item.ProductID, item.Size, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("failed to create sale item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *saleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	query := `
		SELECT id, date, total_amount, payment_method
		FROM sales
		ORDER BY date DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.SaleID, &s.Date, &s.TotalAmount, &s.PaymentMethod); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	for i := range sales {
		items, err := r.loadItems(ctx, sales[i])
		if err != nil {
			return nil, err
		}
		sales[i].SaleItems = items
	}

	return sales, nil
}

func (r *saleRepository) loadItems(ctx context.Context, sale domain.Sale) ([]domain.SaleItem, error) {
	query := `
		SELECT id, product_id, size, quantity, price
		FROM sale_items
		WHERE sale_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, sale.SaleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale items: %w", err)
	}
	defer rows.Close()

	items := []domain.SaleItem{}
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Size, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale items: %w", err)
	}

	return items, nil
}
