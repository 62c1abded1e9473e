package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/repo"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
)

// Repository wires together product persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByCode resolves a scanned or typed code to a product. Resolution order:
// UUID primary key, then internal code, then barcode.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}

	if id, err := uuid.Parse(trimmed); err == nil {
		product, err := r.FindByID(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var product models.Product
	err := r.DB(ctx).
		First(&product, "internal_code = ?", trimmed).Error
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.DB(ctx).
		First(&product, "barcode = ?", trimmed).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update updates an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Deactivate flips the active flag; rows are never removed while sales reference them.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns active products filtered by an optional search term.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]models.Product, int64, error) {
	query := r.DB(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where(
			"lower(name) LIKE ? OR lower(brand) LIKE ? OR barcode = ? OR internal_code = ?",
			like, like, trimmed, trimmed,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// LowStock returns active products at or below their minimum quantity.
func (r *Repository) LowStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.DB(ctx).
		Where("is_active = ? AND quantity <= min_quantity", true).
		Order("quantity ASC").
		Find(&products).Error
	return products, err
}

// DecrementQuantity applies a guarded relative decrement. It reports false when
// the row holds fewer units than requested, leaving the row untouched.
func (r *Repository) DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, errors.New("quantity must be positive")
	}
	result := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// IncrementQuantity adds received units, used by restock intake.
func (r *Repository) IncrementQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return errors.New("quantity must be positive")
	}
	result := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
