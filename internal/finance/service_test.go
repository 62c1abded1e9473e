package finance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:finance_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Payable{}, &models.Receivable{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreatePayableValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	due := time.Now().Add(72 * time.Hour)

	cases := []struct {
		name  string
		input CreatePayableInput
	}{
		{"missing description", CreatePayableInput{Amount: decimal.RequireFromString("10.00"), DueDate: due}},
		{"zero amount", CreatePayableInput{Description: "rent", DueDate: due}},
		{"negative amount", CreatePayableInput{Description: "rent", Amount: decimal.RequireFromString("-5.00"), DueDate: due}},
		{"missing due date", CreatePayableInput{Description: "rent", Amount: decimal.RequireFromString("10.00")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePayable(ctx, tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSettlePayable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePayable(ctx, CreatePayableInput{
		Description: "supplier invoice 4411",
		Amount:      decimal.RequireFromString("250.00"),
		DueDate:     time.Now().Add(240 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.SettlePayable(ctx, created.ID); err != nil {
		t.Fatalf("settle: %v", err)
	}

	result, err := svc.ListPayables(ctx, ListAccountsInput{Status: enums.AccountStatusSettled})
	if err != nil {
		t.Fatalf("list settled: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected 1 settled payable, got %d", result.Total)
	}
	if result.Payables[0].SettledAt == nil {
		t.Fatal("settled payable must record settled_at")
	}

	// Settling twice must fail: the guard only matches open rows.
	err = svc.SettlePayable(ctx, created.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on double settle, got %v", err)
	}
}

func TestSettleReceivableNotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.SettleReceivable(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListReceivablesFiltersByStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateReceivable(ctx, CreateReceivableInput{
		CustomerName: "Maria Souza",
		Amount:       decimal.RequireFromString("120.00"),
		DueDate:      time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	_, err = svc.CreateReceivable(ctx, CreateReceivableInput{
		CustomerName: "Joao Lima",
		Amount:       decimal.RequireFromString("80.00"),
		DueDate:      time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if err := svc.SettleReceivable(ctx, first.ID); err != nil {
		t.Fatalf("settle: %v", err)
	}

	open, err := svc.ListReceivables(ctx, ListAccountsInput{Status: enums.AccountStatusOpen})
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if open.Total != 1 || open.Receivables[0].CustomerName != "Joao Lima" {
		t.Fatalf("expected only the open receivable, got %+v", open.Receivables)
	}
}

func TestSummarySumsOpenSidesOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	due := time.Now().Add(24 * time.Hour)

	settled, err := svc.CreatePayable(ctx, CreatePayableInput{Description: "paid bill", Amount: decimal.RequireFromString("999.00"), DueDate: due})
	if err != nil {
		t.Fatalf("create settled payable: %v", err)
	}
	if err := svc.SettlePayable(ctx, settled.ID); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if _, err := svc.CreatePayable(ctx, CreatePayableInput{Description: "rent", Amount: decimal.RequireFromString("1500.00"), DueDate: due}); err != nil {
		t.Fatalf("create payable: %v", err)
	}
	if _, err := svc.CreatePayable(ctx, CreatePayableInput{Description: "utilities", Amount: decimal.RequireFromString("230.50"), DueDate: due}); err != nil {
		t.Fatalf("create payable: %v", err)
	}
	if _, err := svc.CreateReceivable(ctx, CreateReceivableInput{CustomerName: "Oficina Silva", Amount: decimal.RequireFromString("410.25"), DueDate: due}); err != nil {
		t.Fatalf("create receivable: %v", err)
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got := summary.OpenPayables.StringFixed(2); got != "1730.50" {
		t.Fatalf("expected open payables 1730.50, got %s", got)
	}
	if got := summary.OpenReceivables.StringFixed(2); got != "410.25" {
		t.Fatalf("expected open receivables 410.25, got %s", got)
	}
}

func TestSummaryEmptyLedgerIsZero(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !summary.OpenPayables.IsZero() || !summary.OpenReceivables.IsZero() {
		t.Fatalf("expected zero totals, got %+v", summary)
	}
}
