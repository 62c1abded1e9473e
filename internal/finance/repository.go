package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/repo"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
)

// Repository handles payable and receivable persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreatePayable inserts a new payable row.
func (r *Repository) CreatePayable(ctx context.Context, payable *models.Payable) (*models.Payable, error) {
	if err := r.DB(ctx).Create(payable).Error; err != nil {
		return nil, err
	}
	return payable, nil
}

// CreateReceivable inserts a new receivable row.
func (r *Repository) CreateReceivable(ctx context.Context, receivable *models.Receivable) (*models.Receivable, error) {
	if err := r.DB(ctx).Create(receivable).Error; err != nil {
		return nil, err
	}
	return receivable, nil
}

// ListPayables returns payables filtered by optional status, due first.
func (r *Repository) ListPayables(ctx context.Context, status enums.AccountStatus, limit, offset int) ([]models.Payable, int64, error) {
	query := r.DB(ctx).Model(&models.Payable{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payables []models.Payable
	err := query.
		Order("due_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&payables).Error
	if err != nil {
		return nil, 0, err
	}
	return payables, total, nil
}

// ListReceivables returns receivables filtered by optional status, due first.
func (r *Repository) ListReceivables(ctx context.Context, status enums.AccountStatus, limit, offset int) ([]models.Receivable, int64, error) {
	query := r.DB(ctx).Model(&models.Receivable{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var receivables []models.Receivable
	err := query.
		Order("due_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&receivables).Error
	if err != nil {
		return nil, 0, err
	}
	return receivables, total, nil
}

// SettlePayable marks an open payable as settled.
func (r *Repository) SettlePayable(ctx context.Context, id uuid.UUID, settledAt time.Time) error {
	return r.settle(ctx, &models.Payable{}, id, settledAt)
}

// SettleReceivable marks an open receivable as settled.
func (r *Repository) SettleReceivable(ctx context.Context, id uuid.UUID, settledAt time.Time) error {
	return r.settle(ctx, &models.Receivable{}, id, settledAt)
}

func (r *Repository) settle(ctx context.Context, model any, id uuid.UUID, settledAt time.Time) error {
	result := r.DB(ctx).
		Model(model).
		Where("id = ? AND status = ?", id, enums.AccountStatusOpen).
		Updates(map[string]any{
			"status":     enums.AccountStatusSettled,
			"settled_at": settledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// OpenTotals sums the outstanding amounts on both sides of the ledger.
func (r *Repository) OpenTotals(ctx context.Context) (payable, receivable decimal.Decimal, err error) {
	payable, err = r.sumOpen(ctx, &models.Payable{})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	receivable, err = r.sumOpen(ctx, &models.Receivable{})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return payable, receivable, nil
}

func (r *Repository) sumOpen(ctx context.Context, model any) (decimal.Decimal, error) {
	var raw *string
	err := r.DB(ctx).
		Model(model).
		Where("status = ?", enums.AccountStatusOpen).
		Select("CAST(SUM(amount) AS TEXT)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}
