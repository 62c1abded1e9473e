package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
)

// Service exposes supplier management operations.
type Service interface {
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input UpdateSupplierInput) (*models.Supplier, error)
	DeactivateSupplier(ctx context.Context, supplierID uuid.UUID) error
	GetSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, input ListSuppliersInput) (*SupplierListResult, error)
}

// CreateSupplierInput holds the validated payload to create a supplier.
type CreateSupplierInput struct {
	Company string
	CNPJ    string
	Contact string
	Email   string
	Phone   string
	Address string
	Notes   string
}

// UpdateSupplierInput holds optional mutation values for a supplier.
type UpdateSupplierInput struct {
	Company *string
	CNPJ    *string
	Contact *string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

// ListSuppliersInput captures list filters.
type ListSuppliersInput struct {
	Search string
	Limit  int
	Page   int
}

// SupplierListResult is one page of suppliers plus the total match count.
type SupplierListResult struct {
	Suppliers []models.Supplier
	Total     int64
	Page      int
	Limit     int
}

type service struct {
	repo *Repository
}

// NewService constructs a supplier service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error) {
	if strings.TrimSpace(input.Company) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}

	supplier := &models.Supplier{
		ID:       uuid.New(),
		Company:  strings.TrimSpace(input.Company),
		CNPJ:     strings.TrimSpace(input.CNPJ),
		Contact:  strings.TrimSpace(input.Contact),
		Email:    strings.TrimSpace(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
		Address:  strings.TrimSpace(input.Address),
		Notes:    strings.TrimSpace(input.Notes),
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating supplier")
	}
	return created, nil
}

func (s *service) UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input UpdateSupplierInput) (*models.Supplier, error) {
	supplier, err := s.loadSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	if input.Company != nil {
		if strings.TrimSpace(*input.Company) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name cannot be empty")
		}
		supplier.Company = strings.TrimSpace(*input.Company)
	}
	if input.CNPJ != nil {
		supplier.CNPJ = strings.TrimSpace(*input.CNPJ)
	}
	if input.Contact != nil {
		supplier.Contact = strings.TrimSpace(*input.Contact)
	}
	if input.Email != nil {
		supplier.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		supplier.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		supplier.Address = strings.TrimSpace(*input.Address)
	}
	if input.Notes != nil {
		supplier.Notes = strings.TrimSpace(*input.Notes)
	}

	updated, err := s.repo.Update(ctx, supplier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating supplier")
	}
	return updated, nil
}

func (s *service) DeactivateSupplier(ctx context.Context, supplierID uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating supplier")
	}
	return nil
}

func (s *service) GetSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	return s.loadSupplier(ctx, supplierID)
}

func (s *service) ListSuppliers(ctx context.Context, input ListSuppliersInput) (*SupplierListResult, error) {
	limit := pagination.NormalizeLimit(input.Limit)
	page := input.Page
	if page < 1 {
		page = 1
	}

	suppliers, total, err := s.repo.List(ctx, input.Search, limit, (page-1)*limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing suppliers")
	}
	return &SupplierListResult{
		Suppliers: suppliers,
		Total:     total,
		Page:      page,
		Limit:     limit,
	}, nil
}

func (s *service) loadSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading supplier")
	}
	return supplier, nil
}
