package operators

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/repo"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
)

// Repository handles operator persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID loads one operator.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Operator, error) {
	var operator models.Operator
	if err := r.DB(ctx).First(&operator, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &operator, nil
}

// FindByEmail loads one operator by normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Operator, error) {
	var operator models.Operator
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.DB(ctx).First(&operator, "email = ?", normalized).Error; err != nil {
		return nil, err
	}
	return &operator, nil
}

// Create inserts a new operator row.
func (r *Repository) Create(ctx context.Context, operator *models.Operator) (*models.Operator, error) {
	if err := r.DB(ctx).Create(operator).Error; err != nil {
		return nil, err
	}
	return operator, nil
}

// UpdatePasswordHash replaces the stored hash for an active operator.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	result := r.DB(ctx).
		Model(&models.Operator{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate flips the active flag.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).
		Model(&models.Operator{}).
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

// List returns active operators ordered by name.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Operator, int64, error) {
	query := r.DB(ctx).Model(&models.Operator{}).Where("is_active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var operators []models.Operator
	err := query.
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&operators).Error
	if err != nil {
		return nil, 0, err
	}
	return operators, total, nil
}
