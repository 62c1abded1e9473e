package restock

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/repo"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
)

// Repository reads sales velocity off the committed sale items.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// SoldSince sums units sold per product on or after the given day key.
func (r *Repository) SoldSince(ctx context.Context, productIDs []uuid.UUID, sinceDayKey string) (map[uuid.UUID]int, error) {
	sold := make(map[uuid.UUID]int, len(productIDs))
	if len(productIDs) == 0 {
		return sold, nil
	}

	type row struct {
		ProductID uuid.UUID
		Units     int
	}
	var rows []row
	err := r.DB(ctx).
		Model(&models.SaleItem{}).
		Select("product_id, SUM(quantity) AS units").
		Where("product_id IN ? AND day_key >= ?", productIDs, sinceDayKey).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		sold[r.ProductID] = r.Units
	}
	return sold, nil
}
