package restock

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/catalog"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:restock_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.SaleItem{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, quantity, minQuantity int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           uuid.New(),
		Name:         "Spark Plug",
		Brand:        "NGK",
		Category:     "ignition",
		Price:        decimal.RequireFromString("24.90"),
		Quantity:     quantity,
		MinQuantity:  minQuantity,
		InternalCode: fmt.Sprintf("CODE-%s", uuid.NewString()[:8]),
		IsActive:     true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedSoldUnits(t *testing.T, conn *gorm.DB, productID uuid.UUID, units int, daysAgo int) {
	t.Helper()
	dayKey := time.Now().AddDate(0, 0, -daysAgo).Format(dayKeyLayout)
	item := &models.SaleItem{
		ID:        uuid.New(),
		SaleID:    uuid.New(),
		ProductID: productID,
		Name:      "Spark Plug",
		Quantity:  units,
		UnitPrice: decimal.RequireFromString("24.90"),
		Subtotal:  decimal.RequireFromString("24.90").Mul(decimal.NewFromInt(int64(units))),
		DayKey:    dayKey,
	}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("seed sale item: %v", err)
	}
}

func newService(t *testing.T, conn *gorm.DB, coverageDays int) Service {
	t.Helper()
	svc, err := NewService(catalog.NewRepository(conn), NewRepository(conn), NewCoverageAdvisor(coverageDays))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSuggestionsEmptyWhenStockHealthy(t *testing.T) {
	conn := newTestDB(t)
	seedProduct(t, conn, 50, 5)
	svc := newService(t, conn, 14)

	suggestions, err := svc.Suggestions(context.Background())
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(suggestions))
	}
}

func TestSuggestionsSizedByRecentVelocity(t *testing.T) {
	conn := newTestDB(t)
	product := seedProduct(t, conn, 2, 5)
	// 60 units over the 30-day window: 2 a day, so 14 days of coverage
	// means a target of 28 and a suggested order of 26.
	seedSoldUnits(t, conn, product.ID, 40, 5)
	seedSoldUnits(t, conn, product.ID, 20, 20)
	// Outside the window, must not count.
	seedSoldUnits(t, conn, product.ID, 500, 45)
	svc := newService(t, conn, 14)

	suggestions, err := svc.Suggestions(context.Background())
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	got := suggestions[0]
	if got.Product.ID != product.ID {
		t.Fatalf("unexpected product %s", got.Product.ID)
	}
	if got.DailySales != 2.0 {
		t.Fatalf("expected daily sales 2.0, got %f", got.DailySales)
	}
	if got.SuggestedQty != 26 {
		t.Fatalf("expected suggested qty 26, got %d", got.SuggestedQty)
	}
}

func TestSuggestionsSlowMoverToppedUpPastMinimum(t *testing.T) {
	conn := newTestDB(t)
	seedProduct(t, conn, 1, 4)
	svc := newService(t, conn, 14)

	suggestions, err := svc.Suggestions(context.Background())
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	// No sales history: target falls back to min+1, so 5-1 = 4.
	if got := suggestions[0].SuggestedQty; got != 4 {
		t.Fatalf("expected suggested qty 4, got %d", got)
	}
}

func TestCoverageAdvisorNeverSuggestsBelowOne(t *testing.T) {
	t.Parallel()
	advisor := NewCoverageAdvisor(7)

	qty, err := advisor.Suggest(context.Background(), models.Product{Quantity: 10, MinQuantity: 2}, 0)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if qty != 1 {
		t.Fatalf("expected floor of 1, got %d", qty)
	}
}
