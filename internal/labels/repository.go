package labels

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/repo"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
)

// Repository handles label job persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a clone bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// Create inserts a new label job row.
func (r *Repository) Create(ctx context.Context, job *models.LabelJob) (*models.LabelJob, error) {
	if err := r.DB(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// List returns jobs filtered by optional status, oldest first.
func (r *Repository) List(ctx context.Context, status enums.LabelJobStatus, limit, offset int) ([]models.LabelJob, int64, error) {
	query := r.DB(ctx).Model(&models.LabelJob{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.LabelJob
	err := query.
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// MarkPrinted transitions a pending job to printed.
func (r *Repository) MarkPrinted(ctx context.Context, id uuid.UUID, printedAt time.Time) error {
	return r.transition(ctx, id, enums.LabelJobStatusPrinted, &printedAt)
}

// Cancel transitions a pending job to canceled.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, id, enums.LabelJobStatusCanceled, nil)
}

func (r *Repository) transition(ctx context.Context, id uuid.UUID, to enums.LabelJobStatus, printedAt *time.Time) error {
	updates := map[string]any{"status": to}
	if printedAt != nil {
		updates["printed_at"] = *printedAt
	}
	result := r.DB(ctx).
		Model(&models.LabelJob{}).
		Where("id = ? AND status = ?", id, enums.LabelJobStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
