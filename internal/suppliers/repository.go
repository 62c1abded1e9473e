package suppliers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/repo"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
)

// Repository handles supplier persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID loads one supplier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.DB(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// Create inserts a new supplier row.
func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.DB(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// Update saves an existing supplier row.
func (r *Repository) Update(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.DB(ctx).Save(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// Deactivate flips the active flag.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).
		Model(&models.Supplier{}).
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

// List returns active suppliers filtered by an optional search term.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]models.Supplier, int64, error) {
	query := r.DB(ctx).Model(&models.Supplier{}).Where("is_active = ?", true)
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where("lower(company) LIKE ? OR cnpj = ?", like, trimmed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var suppliers []models.Supplier
	err := query.
		Order("company ASC").
		Limit(limit).
		Offset(offset).
		Find(&suppliers).Error
	if err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}
