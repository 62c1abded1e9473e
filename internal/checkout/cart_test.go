package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
)

func stubProduct(quantity int, price string) *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		Name:        "Oil Filter",
		Brand:       "Tecfil",
		Category:    "filters",
		Price:       decimal.RequireFromString(price),
		Quantity:    quantity,
		MinQuantity: 2,
		IsActive:    true,
	}
}

func TestAddOrIncrementAccumulatesOneLine(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	product := stubProduct(5, "10.00")

	for i := 0; i < 3; i++ {
		if err := cart.AddOrIncrement(product); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	lines := cart.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
	if got := cart.Total(); !got.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected total 30.00, got %s", got)
	}
}

func TestAddOrIncrementRejectsOutOfStock(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	err := cart.AddOrIncrement(stubProduct(0, "10.00"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out of stock error, got %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("cart must stay empty after rejected add")
	}
}

func TestAddOrIncrementStopsAtStockCeiling(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	product := stubProduct(2, "5.00")

	for i := 0; i < 2; i++ {
		if err := cart.AddOrIncrement(product); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	err := cart.AddOrIncrement(product)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if cart.Lines()[0].Quantity != 2 {
		t.Fatalf("line quantity must be unchanged, got %d", cart.Lines()[0].Quantity)
	}
}

func TestAdjustQuantityClampsAndRejects(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	product := stubProduct(5, "10.00")
	if err := cart.AddOrIncrement(product); err != nil {
		t.Fatalf("add: %v", err)
	}

	// never drops below one
	if err := cart.AdjustQuantity(product.ID, -10, product.Quantity); err != nil {
		t.Fatalf("adjust down: %v", err)
	}
	if cart.Lines()[0].Quantity != 1 {
		t.Fatalf("expected clamp to 1, got %d", cart.Lines()[0].Quantity)
	}

	err := cart.AdjustQuantity(product.ID, 10, product.Quantity)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if cart.Lines()[0].Quantity != 1 {
		t.Fatalf("line must be unchanged after rejection, got %d", cart.Lines()[0].Quantity)
	}

	details, ok := appErr.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected map details, got %T", appErr.Details())
	}
	if details["available"] != 5 {
		t.Fatalf("expected available=5 in details, got %v", details["available"])
	}

	if err := cart.AdjustQuantity(product.ID, 0, product.Quantity); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for zero delta")
	}
}

func TestAdjustQuantityUnknownLine(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	err := cart.AdjustQuantity(uuid.New(), 1, 10)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	product := stubProduct(5, "10.00")
	if err := cart.AddOrIncrement(product); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart.Remove(product.ID)
	if !cart.IsEmpty() {
		t.Fatal("expected empty cart after remove")
	}
	cart.Remove(product.ID)
	if !cart.IsEmpty() {
		t.Fatal("second remove must be a no-op")
	}
}

func TestTotalRoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	product := stubProduct(9, "3.333")

	for i := 0; i < 3; i++ {
		if err := cart.AddOrIncrement(product); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	// 3 * 3.333 = 9.999 -> 10.00 rounded half away from zero
	if got := cart.Total(); !got.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected total 10.00, got %s", got)
	}
}

func TestTotalOnEmptyCartIsZero(t *testing.T) {
	t.Parallel()

	if got := NewCart().Total(); !got.IsZero() {
		t.Fatalf("expected zero total, got %s", got)
	}
}

func TestSaleLinesSnapshotMatchesCart(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	product := stubProduct(5, "12.50")
	if err := cart.AddOrIncrement(product); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := cart.AddOrIncrement(product); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines := cart.SaleLines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 sale line, got %d", len(lines))
	}
	if lines[0].ProductID != product.ID || lines[0].Quantity != 2 {
		t.Fatalf("unexpected sale line %+v", lines[0])
	}
	if !lines[0].UnitPrice.Equal(product.Price) {
		t.Fatalf("unit price mismatch: %s", lines[0].UnitPrice)
	}
}
