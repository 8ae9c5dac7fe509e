package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog product and its per-size stock levels
type Product struct {
	ProductID   uuid.UUID     `json:"productId" db:"id"`
	Name        string        `json:"name" db:"name"`
	Price       float64       `json:"price" db:"price"`
	Rating      *float64      `json:"rating,omitempty" db:"rating"`
	Description string        `json:"description,omitempty" db:"description"`
	Gender      string        `json:"gender,omitempty" db:"gender"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	ImageURL    string        `json:"imageUrl,omitempty" db:"image_url"`
	BranchID    *uuid.UUID    `json:"branchId,omitempty" db:"branch_id"`
	Sizes       []ProductSize `json:"sizes,omitempty"`
}

// ProductSize is one size row of a product. Size labels are unique within a
// product; StockQuantity never goes below zero.
type ProductSize struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Size          string    `json:"size" db:"size"`
	StockQuantity int       `json:"stockQuantity" db:"stock_quantity"`
	ProductID     uuid.UUID `json:"productId" db:"product_id"`
}

// StockFor returns the stock quantity for a size label, or false when the
// product has no such size.
func (p *Product) StockFor(size string) (int, bool) {
	for _, s := range p.Sizes {
		if s.Size == size {
			return s.StockQuantity, true
		}
	}
	return 0, false
}

// NewProduct is the payload for creating a product
type NewProduct struct {
	Name        string         `json:"name" validate:"required"`
	Price       float64        `json:"price" validate:"gte=0"`
	Rating      *float64       `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Description string         `json:"description,omitempty"`
	Gender      string         `json:"gender,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	BranchID    *uuid.UUID     `json:"branchId,omitempty"`
	Sizes       []NewStockSize `json:"sizes,omitempty" validate:"omitempty,dive"`
}

// NewStockSize is a size row in a create or update payload
type NewStockSize struct {
	Size          string `json:"size" validate:"required"`
	StockQuantity int    `json:"stockQuantity" validate:"gte=0"`
}

// ProductPatch carries partial product updates. Nil fields are left
// unchanged; a non-nil Sizes replaces the full size collection.
type ProductPatch struct {
	Name        *string        `json:"name,omitempty"`
	Price       *float64       `json:"price,omitempty" validate:"omitempty,gte=0"`
	Rating      *float64       `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Description *string        `json:"description,omitempty"`
	Gender      *string        `json:"gender,omitempty"`
	ImageURL    *string        `json:"imageUrl,omitempty"`
	BranchID    *uuid.UUID     `json:"branchId,omitempty"`
	Sizes       []NewStockSize `json:"sizes,omitempty" validate:"omitempty,dive"`
}

// ProductPage is one page of a filtered product listing
type ProductPage struct {
	Products    []Product `json:"products"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// ProductFilter narrows and paginates product listings. Search matches name
// or product id case-insensitively; BranchID restricts to one branch.
type ProductFilter struct {
	Search   string
	Page     int
	Limit    int
	BranchID *uuid.UUID
}

// Defaults used when a filter omits pagination values
const (
	DefaultPage  = 1
	DefaultLimit = 16
)

// Normalize fills in default pagination values and clamps invalid ones
func (f ProductFilter) Normalize() ProductFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// DeleteResult is the response body of entity delete operations
type DeleteResult struct {
	Success bool      `json:"success"`
	ID      uuid.UUID `json:"id"`
}
