package suppliers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:suppliers_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Supplier{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateSupplierRequiresCompany(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateSupplier(context.Background(), CreateSupplierInput{CNPJ: "12.345.678/0001-90"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSupplierLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSupplier(ctx, CreateSupplierInput{
		Company: "Auto Pecas Ltda",
		CNPJ:    "12.345.678/0001-90",
		Email:   "vendas@autopecas.example",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPhone := "+55 11 99999-0000"
	updated, err := svc.UpdateSupplier(ctx, created.ID, UpdateSupplierInput{Phone: &newPhone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != newPhone {
		t.Fatalf("expected phone %q, got %q", newPhone, updated.Phone)
	}

	result, err := svc.ListSuppliers(ctx, ListSuppliersInput{Search: "auto"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected 1 supplier, got %d", result.Total)
	}

	if err := svc.DeactivateSupplier(ctx, created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	result, err = svc.ListSuppliers(ctx, ListSuppliersInput{})
	if err != nil {
		t.Fatalf("list after deactivate: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("deactivated supplier must not be listed, got %d", result.Total)
	}
}

func TestGetSupplierNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetSupplier(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
