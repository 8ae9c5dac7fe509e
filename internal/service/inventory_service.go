package service

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

// InventoryService defines the business logic for the product catalog and
// branch management
type InventoryService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, input domain.NewProduct) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListBranches(ctx context.Context) ([]domain.Branch, error)
	GetBranch(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
	CreateBranch(ctx context.Context, input domain.NewBranch) (*domain.Branch, error)
	UpdateBranch(ctx context.Context, id uuid.UUID, patch domain.BranchPatch) (*domain.Branch, error)
	DeleteBranch(ctx context.Context, id uuid.UUID) error
}

type inventoryService struct {
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) InventoryService {
	return &inventoryService{
		productRepo: productRepo,
		branchRepo:  branchRepo,
	}
}

// ListProducts returns one page of products and the page arithmetic the
// listing UI needs
func (s *inventoryService) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	filter = filter.Normalize()

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	return &domain.ProductPage{
		Products:    products,
		TotalPages:  totalPages,
		CurrentPage: filter.Page,
	}, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// CreateProduct assigns server-side identity and persists the product with
// its initial size rows
func (s *inventoryService) CreateProduct(ctx context.Context, input domain.NewProduct) (*domain.Product, error) {
	product := &domain.Product{
		ProductID:   uuid.New(),
		Name:        input.Name,
		Price:       input.Price,
		Rating:      input.Rating,
		Description: input.Description,
		Gender:      input.Gender,
		ImageURL:    input.ImageURL,
		BranchID:    input.BranchID,
		CreatedAt:   time.Now().UTC(),
		Sizes:       buildSizes(uuid.Nil, input.Sizes),
	}
	for i := range product.Sizes {
		product.Sizes[i].ProductID = product.ProductID
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct loads the current product, applies the non-nil patch
// fields on top of it and persists the result, so unpatched fields are
// left exactly as they were
func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Rating != nil {
		product.Rating = patch.Rating
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Gender != nil {
		product.Gender = *patch.Gender
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	if patch.BranchID != nil {
		product.BranchID = patch.BranchID
	}

	replaceSizes := patch.Sizes != nil
	if replaceSizes {
		product.Sizes = buildSizes(product.ProductID, patch.Sizes)
	}

	if err := s.productRepo.Update(ctx, product, replaceSizes); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *inventoryService) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return s.branchRepo.List(ctx)
}

func (s *inventoryService) GetBranch(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	return s.branchRepo.FindByID(ctx, id)
}

func (s *inventoryService) CreateBranch(ctx context.Context, input domain.NewBranch) (*domain.Branch, error) {
	branch := &domain.Branch{
		BranchID: uuid.New(),
		Name:     input.Name,
		Location: input.Location,
	}

	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}

	return branch, nil
}

func (s *inventoryService) UpdateBranch(ctx context.Context, id uuid.UUID, patch domain.BranchPatch) (*domain.Branch, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		branch.Name = *patch.Name
	}
	if patch.Location != nil {
		branch.Location = *patch.Location
	}

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}

	return branch, nil
}

func (s *inventoryService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	return s.branchRepo.Delete(ctx, id)
}

func buildSizes(productID uuid.UUID, inputs []domain.NewStockSize) []domain.ProductSize {
	sizes := make([]domain.ProductSize, 0, len(inputs))
	for _, in := range inputs {
		sizes = append(sizes, domain.ProductSize{
			ID:            uuid.New(),
			ProductID:     productID,
			Size:          in.Size,
			StockQuantity: in.StockQuantity,
		})
	}
	return sizes
}
