package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stockroom/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrBranchNotFound = errors.New("branch not found")
)

// BranchRepository defines the interface for branch data access
type BranchRepository interface {
	Create(ctx context.Context, branch *domain.Branch) error
	Update(ctx context.Context, branch *domain.Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
	List(ctx context.Context) ([]domain.Branch, error)
}

type branchRepository struct {
	db *sql.DB
}

// NewBranchRepository creates a new instance of BranchRepository
func NewBranchRepository(db *sql.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	query := `INSERT INTO branches (id, name, location) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, branch.BranchID, branch.Name, branch.Location)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}

	return nil
}

func (r *branchRepository) Update(ctx context.Context, branch *domain.Branch) error {
	query := `UPDATE branches SET name = $2, location = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, branch.BranchID, branch.Name, branch.Location)
	if err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrBranchNotFound
	}

	return nil
}

func (r *branchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrBranchNotFound
	}

	return nil
}

func (r *branchRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	query := `SELECT id, name, location FROM branches WHERE id = $1`

	branch := &domain.Branch{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&branch.BranchID, &branch.Name, &branch.Location)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to find branch by ID: %w", err)
	}

	return branch, nil
}

func (r *branchRepository) List(ctx context.Context) ([]domain.Branch, error) {
	query := `SELECT id, name, location FROM branches ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	branches := []domain.Branch{}
	for rows.Next() {
		var b domain.Branch
		if err := rows.Scan(&b.BranchID, &b.Name, &b.Location); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating branches: %w", err)
	}

	return branches, nil
}
