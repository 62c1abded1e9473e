package labels

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/catalog"
	"github.com/balcaolabs/pos-backend/pkg/db"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/outbox"
	"github.com/balcaolabs/pos-backend/pkg/outbox/payloads"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
)

// maxCopiesPerJob bounds a single print request.
const maxCopiesPerJob = 100

// Service exposes the label print queue.
type Service interface {
	QueueLabels(ctx context.Context, input QueueLabelsInput) (*models.LabelJob, error)
	ListJobs(ctx context.Context, input ListJobsInput) (*JobListResult, error)
	MarkPrinted(ctx context.Context, jobID uuid.UUID) error
	CancelJob(ctx context.Context, jobID uuid.UUID) error
}

// QueueLabelsInput describes one print request.
type QueueLabelsInput struct {
	ProductID   uuid.UUID
	Copies      int
	RequestedBy uuid.UUID
}

// ListJobsInput captures list filters.
type ListJobsInput struct {
	Status enums.LabelJobStatus
	Limit  int
	Page   int
}

// JobListResult is one page of label jobs.
type JobListResult struct {
	Jobs  []models.LabelJob
	Total int64
	Page  int
	Limit int
}

type service struct {
	repo     *Repository
	catalog  *catalog.Repository
	dbClient *db.Client
	events   *outbox.Service
	now      func() time.Time
}

// NewService constructs a label queue service instance.
func NewService(repo *Repository, catalogRepo *catalog.Repository, dbClient *db.Client, events *outbox.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("label repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{
		repo:     repo,
		catalog:  catalogRepo,
		dbClient: dbClient,
		events:   events,
		now:      time.Now,
	}, nil
}

// QueueLabels validates the product, then writes the job and its outbox
// event in one transaction.
func (s *service) QueueLabels(ctx context.Context, input QueueLabelsInput) (*models.LabelJob, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Copies < 1 || input.Copies > maxCopiesPerJob {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("copies must be between 1 and %d", maxCopiesPerJob))
	}
	if input.RequestedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requesting operator is required")
	}

	product, err := s.catalog.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	job := &models.LabelJob{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Copies:      input.Copies,
		Status:      enums.LabelJobStatusPending,
		RequestedBy: input.RequestedBy,
	}
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, job); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLabelsQueued,
			AggregateType: enums.AggregateProduct,
			AggregateID:   product.ID,
			Actor:         &outbox.ActorRef{OperatorID: input.RequestedBy},
			Data: payloads.LabelsQueuedEvent{
				JobIDs:      []uuid.UUID{job.ID},
				ProductID:   product.ID,
				Copies:      input.Copies,
				RequestedBy: input.RequestedBy,
			},
			Version:    1,
			OccurredAt: s.now(),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing label job")
	}
	return job, nil
}

func (s *service) ListJobs(ctx context.Context, input ListJobsInput) (*JobListResult, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	limit := pagination.NormalizeLimit(input.Limit)
	page := input.Page
	if page < 1 {
		page = 1
	}

	jobs, total, err := s.repo.List(ctx, input.Status, limit, (page-1)*limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing label jobs")
	}
	return &JobListResult{Jobs: jobs, Total: total, Page: page, Limit: limit}, nil
}

func (s *service) MarkPrinted(ctx context.Context, jobID uuid.UUID) error {
	if err := s.repo.MarkPrinted(ctx, jobID, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pending label job not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking label job printed")
	}
	return nil
}

func (s *service) CancelJob(ctx context.Context, jobID uuid.UUID) error {
	if err := s.repo.Cancel(ctx, jobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pending label job not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "canceling label job")
	}
	return nil
}
