package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stockroom/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product, replaceSizes bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product and its size rows in one transaction
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (id, name, price, rating, description, gender, image_url, branch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		product.ProductID,
		product.Name,
		product.Price,
		product.Rating,
		product.Description,
		product.Gender,
		product.ImageURL,
		branchIDArg(product.BranchID),
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := insertSizes(ctx, tx, product.ProductID, product.Sizes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update updates a product row and, when replaceSizes is set, swaps the
// full size collection for the one on the entity
func (r *productRepository) Update(ctx context.Context, product *domain.Product, replaceSizes bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE products
		SET name = $2, price = $3, rating = $4, description = $5,
		    gender = $6, image_url = $7, branch_id = $8
		WHERE id = $1
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		product.ProductID,
		product.Name,
		product.Price,
		product.Rating,
		product.Description,
		product.Gender,
		product.ImageURL,
		branchIDArg(product.BranchID),
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	if replaceSizes {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_sizes WHERE product_id = $1`, product.ProductID); err != nil {
			return fmt.Errorf("failed to clear product sizes: %w", err)
		}
		if err := insertSizes(ctx, tx, product.ProductID, product.Sizes); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes a product; size rows cascade
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product with its sizes
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, price, rating, description, gender, image_url, branch_id, created_at
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	sizes, err := r.loadSizes(ctx, product.ProductID)
	if err != nil {
		return nil, err
	}
	product.Sizes = sizes

	return product, nil
}

// List retrieves products filtered by search text and branch, paginated,
// newest first. Search matches the name or the product id,
// case-insensitively.
func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	filter = filter.Normalize()

	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if strings.TrimSpace(filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR id::text ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}
	if filter.BranchID != nil {
		conditions = append(conditions, fmt.Sprintf("branch_id = $%d", argIndex))
		args = append(args, *filter.BranchID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT id, name, price, rating, description, gender, image_url, branch_id, created_at
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	for i := range products {
		sizes, err := r.loadSizes(ctx, products[i].ProductID)
		if err != nil {
			return nil, 0, err
		}
		products[i].Sizes = sizes
	}

	return products, total, nil
}

func (r *productRepository) loadSizes(ctx context.Context, productID uuid.UUID) ([]domain.ProductSize, error) {
	query := `
		SELECT id, size, stock_quantity, product_id
		FROM product_sizes
		WHERE product_id = $1
		ORDER BY size
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product sizes: %w", err)
	}
	defer rows.Close()

	sizes := []domain.ProductSize{}
	for rows.Next() {
		var s domain.ProductSize
		if err := rows.Scan(&s.ID, &s.Size, &s.StockQuantity, &s.ProductID); err != nil {
			return nil, fmt.Errorf("failed to scan product size: %w", err)
		}
		sizes = append(sizes, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product sizes: %w", err)
	}

	return sizes, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var rating sql.NullFloat64
	var branchID uuid.NullUUID

	err := row.Scan(
		&product.ProductID,
		&product.Name,
		&product.Price,
		&rating,
		&product.Description,
		&product.Gender,
		&product.ImageURL,
		&branchID,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		product.Rating = &rating.Float64
	}
	if branchID.Valid {
		id := branchID.UUID
		product.BranchID = &id
	}

	return product, nil
}

func insertSizes(ctx context.Context, tx *sql.Tx, productID uuid.UUID, sizes []domain.ProductSize) error {
	query := `
		INSERT INTO product_sizes (id, product_id, size, stock_quantity)
		VALUES ($1, $2, $3, $4)
	`

	for _, s := range sizes {
		if _, err := tx.ExecContext(ctx, query, s.ID, productID, s.Size, s.StockQuantity); err != nil {
			return fmt.Errorf("failed to insert product size %q: %w", s.Size, err)
		}
	}
	return nil
}

func branchIDArg(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
