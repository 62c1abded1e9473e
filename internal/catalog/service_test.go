package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestCreateProductValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing name", CreateProductInput{Category: "filters", Price: decimal.RequireFromString("10.00")}},
		{"missing category", CreateProductInput{Name: "Filter", Price: decimal.RequireFromString("10.00")}},
		{"negative price", CreateProductInput{Name: "Filter", Category: "filters", Price: decimal.RequireFromString("-1.00")}},
		{"negative quantity", CreateProductInput{Name: "Filter", Category: "filters", Price: decimal.RequireFromString("1.00"), Quantity: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateAndUpdateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:         "  Oil Filter  ",
		Brand:        "Tecfil",
		Category:     "filters",
		Price:        decimal.RequireFromString("35.90"),
		Quantity:     10,
		MinQuantity:  3,
		InternalCode: "FLT-001",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Oil Filter" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if !created.IsActive {
		t.Fatal("new products must be active")
	}

	newPrice := decimal.RequireFromString("39.90")
	newMin := 5
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{
		Price:       &newPrice,
		MinQuantity: &newMin,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Price.Equal(newPrice) {
		t.Fatalf("expected price %s, got %s", newPrice, updated.Price)
	}
	if updated.MinQuantity != 5 {
		t.Fatalf("expected min quantity 5, got %d", updated.MinQuantity)
	}
}

func TestLookupUnknownCodeReturnsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Lookup(context.Background(), "missing-code")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeactivateUnknownProductReturnsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeactivateProduct(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
