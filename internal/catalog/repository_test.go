package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return conn
}

func seedProduct(t *testing.T, db *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           uuid.New(),
		Name:         "Oil Filter",
		Brand:        "Tecfil",
		Category:     "filters",
		Price:        decimal.RequireFromString("35.90"),
		Quantity:     10,
		MinQuantity:  3,
		Barcode:      "7891234567890",
		InternalCode: "FLT-001",
		IsActive:     true,
	}
	if mutate != nil {
		mutate(product)
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestFindByCodeResolutionOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, nil)

	byID, err := repo.FindByCode(ctx, product.ID.String())
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.ID != product.ID {
		t.Fatalf("expected product %s, got %s", product.ID, byID.ID)
	}

	byInternal, err := repo.FindByCode(ctx, "FLT-001")
	if err != nil {
		t.Fatalf("find by internal code: %v", err)
	}
	if byInternal.ID != product.ID {
		t.Fatalf("internal code resolved wrong product %s", byInternal.ID)
	}

	byBarcode, err := repo.FindByCode(ctx, "7891234567890")
	if err != nil {
		t.Fatalf("find by barcode: %v", err)
	}
	if byBarcode.ID != product.ID {
		t.Fatalf("barcode resolved wrong product %s", byBarcode.ID)
	}

	if _, err := repo.FindByCode(ctx, "NOPE-999"); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestFindByCodePrefersInternalCodeOverBarcode(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	wanted := seedProduct(t, db, func(p *models.Product) {
		p.InternalCode = "SHARED"
		p.Barcode = ""
	})
	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Air Filter"
		p.InternalCode = "AIR-002"
		p.Barcode = "SHARED"
	})

	got, err := repo.FindByCode(ctx, "SHARED")
	if err != nil {
		t.Fatalf("find by shared code: %v", err)
	}
	if got.ID != wanted.ID {
		t.Fatalf("expected internal code match %s, got %s", wanted.ID, got.ID)
	}
}

func TestDecrementQuantityGuardsStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, func(p *models.Product) { p.Quantity = 5 })

	ok, err := repo.DecrementQuantity(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement to succeed")
	}

	ok, err = repo.DecrementQuantity(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("second decrement: %v", err)
	}
	if ok {
		t.Fatal("expected decrement past available quantity to be refused")
	}

	var reloaded models.Product
	if err := db.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", reloaded.Quantity)
	}
}

func TestDecrementQuantityRejectsNonPositive(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	if _, err := repo.DecrementQuantity(context.Background(), uuid.New(), 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

func TestLowStockReturnsOnlyActiveAtOrBelowMinimum(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	low := seedProduct(t, db, func(p *models.Product) {
		p.Name = "Brake Pad"
		p.InternalCode = "BRK-001"
		p.Barcode = ""
		p.Quantity = 2
		p.MinQuantity = 3
	})
	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Healthy Stock"
		p.InternalCode = "OK-001"
		p.Barcode = ""
		p.Quantity = 50
	})
	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Inactive Low"
		p.InternalCode = "OFF-001"
		p.Barcode = ""
		p.Quantity = 0
		p.IsActive = false
	})

	products, err := repo.LowStock(ctx)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 low stock product, got %d", len(products))
	}
	if products[0].ID != low.ID {
		t.Fatalf("unexpected low stock product %s", products[0].ID)
	}
}

func TestListFiltersBySearchTerm(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, nil)
	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Spark Plug"
		p.Brand = "NGK"
		p.InternalCode = "SPK-001"
		p.Barcode = ""
	})

	products, total, err := repo.List(ctx, "spark", 25, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("expected 1 match, got total=%d len=%d", total, len(products))
	}
	if products[0].Name != "Spark Plug" {
		t.Fatalf("unexpected match %q", products[0].Name)
	}
}
