package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeactivateProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	Lookup(ctx context.Context, code string) (*models.Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	LowStockProducts(ctx context.Context) ([]models.Product, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name         string
	Brand        string
	Model        string
	Category     string
	Size         string
	Tags         []string
	Price        decimal.Decimal
	Quantity     int
	MinQuantity  int
	Barcode      string
	InternalCode string
	SupplierID   *uuid.UUID
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name         *string
	Brand        *string
	Model        *string
	Category     *string
	Size         *string
	Tags         *[]string
	Price        *decimal.Decimal
	MinQuantity  *int
	Barcode      *string
	InternalCode *string
	SupplierID   *uuid.UUID
	IsActive     *bool
}

// ListProductsInput captures list filters.
type ListProductsInput struct {
	Search string
	Limit  int
	Page   int
}

// ProductListResult is one page of products plus the total match count.
type ProductListResult struct {
	Products []models.Product
	Total    int64
	Page     int
	Limit    int
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product category is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.MinQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min quantity cannot be negative")
	}

	product := &models.Product{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Brand:        strings.TrimSpace(input.Brand),
		Model:        strings.TrimSpace(input.Model),
		Category:     strings.TrimSpace(input.Category),
		Size:         strings.TrimSpace(input.Size),
		Tags:         input.Tags,
		Price:        input.Price,
		Quantity:     input.Quantity,
		MinQuantity:  input.MinQuantity,
		Barcode:      strings.TrimSpace(input.Barcode),
		InternalCode: strings.TrimSpace(input.InternalCode),
		SupplierID:   input.SupplierID,
		IsActive:     true,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Model != nil {
		product.Model = strings.TrimSpace(*input.Model)
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product category cannot be empty")
		}
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Size != nil {
		product.Size = strings.TrimSpace(*input.Size)
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.MinQuantity != nil {
		if *input.MinQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min quantity cannot be negative")
		}
		product.MinQuantity = *input.MinQuantity
	}
	if input.Barcode != nil {
		product.Barcode = strings.TrimSpace(*input.Barcode)
	}
	if input.InternalCode != nil {
		product.InternalCode = strings.TrimSpace(*input.InternalCode)
	}
	if input.SupplierID != nil {
		product.SupplierID = input.SupplierID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return updated, nil
}

func (s *service) DeactivateProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return s.loadProduct(ctx, productID)
}

func (s *service) Lookup(ctx context.Context, code string) (*models.Product, error) {
	product, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	limit := pagination.NormalizeLimit(input.Limit)
	page := input.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	products, total, err := s.repo.List(ctx, input.Search, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return &ProductListResult{
		Products: products,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (s *service) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing low stock products")
	}
	return products, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}
