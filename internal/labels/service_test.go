package labels

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcaolabs/pos-backend/internal/catalog"
	"github.com/balcaolabs/pos-backend/pkg/config"
	"github.com/balcaolabs/pos-backend/pkg/db"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/outbox"
)

type testEnv struct {
	svc    Service
	client *db.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:labels_%s?mode=memory&cache=shared", uuid.NewString()),
	}
	client, err := db.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	err = client.DB().AutoMigrate(
		&models.Product{},
		&models.LabelJob{},
		&models.OutboxEvent{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	events := outbox.NewService(outbox.NewRepository(client.DB()), nil)
	svc, err := NewService(NewRepository(client.DB()), catalog.NewRepository(client.DB()), client, events)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &testEnv{svc: svc, client: client}
}

func (e *testEnv) seedProduct(t *testing.T, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           uuid.New(),
		Name:         "Brake Pad",
		Brand:        "Fras-le",
		Category:     "brakes",
		Price:        decimal.RequireFromString("89.90"),
		Quantity:     12,
		InternalCode: fmt.Sprintf("CODE-%s", uuid.NewString()[:8]),
		IsActive:     active,
	}
	if err := e.client.DB().Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestQueueLabelsCreatesJobAndEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, true)
	operator := uuid.New()

	job, err := env.svc.QueueLabels(ctx, QueueLabelsInput{
		ProductID:   product.ID,
		Copies:      4,
		RequestedBy: operator,
	})
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if job.Status != enums.LabelJobStatusPending {
		t.Fatalf("expected pending job, got %s", job.Status)
	}
	if job.Copies != 4 {
		t.Fatalf("expected 4 copies, got %d", job.Copies)
	}

	var event models.OutboxEvent
	if err := env.client.DB().First(&event, "event_type = ?", enums.EventLabelsQueued).Error; err != nil {
		t.Fatalf("load outbox event: %v", err)
	}
	if event.AggregateID != product.ID {
		t.Fatalf("event aggregate mismatch: %s", event.AggregateID)
	}
}

func TestQueueLabelsValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, true)
	operator := uuid.New()

	cases := []struct {
		name  string
		input QueueLabelsInput
	}{
		{"missing product", QueueLabelsInput{Copies: 1, RequestedBy: operator}},
		{"zero copies", QueueLabelsInput{ProductID: product.ID, RequestedBy: operator}},
		{"too many copies", QueueLabelsInput{ProductID: product.ID, Copies: maxCopiesPerJob + 1, RequestedBy: operator}},
		{"missing operator", QueueLabelsInput{ProductID: product.ID, Copies: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.QueueLabels(ctx, tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestQueueLabelsRejectsInactiveProduct(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, false)

	_, err := env.svc.QueueLabels(context.Background(), QueueLabelsInput{
		ProductID:   product.ID,
		Copies:      1,
		RequestedBy: uuid.New(),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkPrintedLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, true)

	job, err := env.svc.QueueLabels(ctx, QueueLabelsInput{ProductID: product.ID, Copies: 2, RequestedBy: uuid.New()})
	if err != nil {
		t.Fatalf("queue: %v", err)
	}

	pending, err := env.svc.ListJobs(ctx, ListJobsInput{Status: enums.LabelJobStatusPending})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if pending.Total != 1 {
		t.Fatalf("expected 1 pending job, got %d", pending.Total)
	}

	if err := env.svc.MarkPrinted(ctx, job.ID); err != nil {
		t.Fatalf("mark printed: %v", err)
	}

	var reloaded models.LabelJob
	if err := env.client.DB().First(&reloaded, "id = ?", job.ID).Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if reloaded.Status != enums.LabelJobStatusPrinted || reloaded.PrintedAt == nil {
		t.Fatalf("expected printed job with timestamp, got %+v", reloaded)
	}

	// A printed job can no longer be printed or canceled.
	if err := env.svc.MarkPrinted(ctx, job.ID); pkgerrors.As(err) == nil {
		t.Fatalf("expected error on double print, got %v", err)
	}
	if err := env.svc.CancelJob(ctx, job.ID); pkgerrors.As(err) == nil {
		t.Fatalf("expected error canceling printed job, got %v", err)
	}
}

func TestCancelPendingJob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, true)

	job, err := env.svc.QueueLabels(ctx, QueueLabelsInput{ProductID: product.ID, Copies: 1, RequestedBy: uuid.New()})
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := env.svc.CancelJob(ctx, job.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	pending, err := env.svc.ListJobs(ctx, ListJobsInput{Status: enums.LabelJobStatusPending})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if pending.Total != 0 {
		t.Fatalf("expected no pending jobs, got %d", pending.Total)
	}
}
