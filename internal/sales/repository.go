package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/repo"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
)

// Repository handles read and bulk-delete access to committed sales.
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

// FindByID loads one sale with its normalized items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, []models.SaleItem, error) {
	var sale models.Sale
	if err := r.DB(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	var items []models.SaleItem
	err := r.DB(ctx).
		Where("sale_id = ?", id).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, nil, err
	}
	return &sale, items, nil
}

// ListByDay returns sales for one calendar day, newest first.
func (r *Repository) ListByDay(ctx context.Context, dayKey string, limit, offset int) ([]models.Sale, int64, error) {
	query := r.DB(ctx).Model(&models.Sale{}).Where("day_key = ?", dayKey)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []models.Sale
	err := query.
		Order("occurred_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sales).Error
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// SumTotalByDay returns the revenue for one calendar day.
func (r *Repository) SumTotalByDay(ctx context.Context, dayKey string) (decimal.Decimal, error) {
	var raw *string
	err := r.DB(ctx).
		Model(&models.Sale{}).
		Where("day_key = ?", dayKey).
		Select("CAST(SUM(total) AS TEXT)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

// DeleteByDay removes all sales and their items for one calendar day.
// Caller wraps this in a transaction.
func (r *Repository) DeleteByDay(ctx context.Context, tx *gorm.DB, dayKey string) (int64, error) {
	if err := tx.WithContext(ctx).
		Where("day_key = ?", dayKey).
		Delete(&models.SaleItem{}).Error; err != nil {
		return 0, err
	}
	result := tx.WithContext(ctx).
		Where("day_key = ?", dayKey).
		Delete(&models.Sale{})
	return result.RowsAffected, result.Error
}
