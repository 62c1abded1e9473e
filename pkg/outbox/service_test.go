package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:outbox_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.OutboxEvent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return conn
}

func TestEmitInsertsEnvelopeInsideTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepository(db), nil)

	saleID := uuid.New()
	operatorID := uuid.New()
	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventSaleCommitted,
			AggregateType: enums.AggregateSale,
			AggregateID:   saleID,
			Actor:         &ActorRef{OperatorID: operatorID, Role: "cashier"},
			Data:          map[string]any{"total": "25.90"},
			Version:       1,
		})
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	var row models.OutboxEvent
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if row.EventType != enums.EventSaleCommitted {
		t.Fatalf("unexpected event type %s", row.EventType)
	}
	if row.AggregateID != saleID {
		t.Fatalf("unexpected aggregate id %s", row.AggregateID)
	}
	if row.PublishedAt != nil {
		t.Fatal("new event must not be marked published")
	}

	var envelope PayloadEnvelope
	if err := json.Unmarshal(row.Payload, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.EventID == "" || envelope.OccurredAt.IsZero() {
		t.Fatalf("envelope missing identity fields: %+v", envelope)
	}
	if envelope.Actor == nil || envelope.Actor.OperatorID != operatorID {
		t.Fatalf("envelope actor mismatch: %+v", envelope.Actor)
	}
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(newTestDB(t)), nil)
	if err := svc.Emit(context.Background(), nil, DomainEvent{}); err == nil {
		t.Fatal("expected error when tx is nil")
	}
}

func TestRepositoryPublishLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventStockLow,
		AggregateType: enums.AggregateProduct,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}

	rows, err := repo.FetchUnpublished(10, 0)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 unpublished row, got %d", len(rows))
	}

	if err := repo.MarkFailed(event.ID, fmt.Errorf("broker down")); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	exhausted, err := repo.FetchUnpublished(10, 1)
	if err != nil {
		t.Fatalf("fetch with attempt cap: %v", err)
	}
	if len(exhausted) != 0 {
		t.Fatalf("expected attempt cap to exclude row, got %d", len(exhausted))
	}

	if err := repo.MarkPublished(event.ID); err != nil {
		t.Fatalf("mark published: %v", err)
	}

	var updated models.OutboxEvent
	if err := db.First(&updated, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if updated.PublishedAt == nil {
		t.Fatal("expected published_at to be set")
	}
	if updated.AttemptCount != 1 {
		t.Fatalf("expected attempt_count=1, got %d", updated.AttemptCount)
	}

	rows, err = repo.FetchUnpublished(10, 0)
	if err != nil {
		t.Fatalf("fetch after publish: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no unpublished rows, got %d", len(rows))
	}
}
