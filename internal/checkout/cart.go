package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/types"
)

// Line is one in-progress cart entry. It snapshots the product's display
// fields at insertion time; only Quantity mutates afterwards.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	Model     string          `json:"model,omitempty"`
	Category  string          `json:"category,omitempty"`
	Barcode   string          `json:"barcode,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity without rounding.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart accumulates lines for a single checkout session. It is not safe for
// concurrent use; the session store serializes access per terminal.
type Cart struct {
	lines []Line
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddOrIncrement adds a line for the product or bumps an existing line by one.
// The product must be in stock; an existing line cannot grow past the on-hand
// quantity observed on the given snapshot.
func (c *Cart) AddOrIncrement(product *models.Product) error {
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock").
			WithDetails(map[string]any{"product_id": product.ID.String()})
	}

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			if c.lines[i].Quantity+1 > product.Quantity {
				return insufficientStockError(product.ID, c.lines[i].Quantity+1, product.Quantity)
			}
			c.lines[i].Quantity++
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Brand:     product.Brand,
		Model:     product.Model,
		Category:  product.Category,
		Barcode:   product.Barcode,
		UnitPrice: product.Price,
		Quantity:  1,
	})
	return nil
}

// AdjustQuantity applies a signed delta to the line, clamped to a minimum of
// one. Raising the quantity past the available stock rejects the adjustment
// and leaves the line unchanged.
func (c *Cart) AdjustQuantity(productID uuid.UUID, delta, available int) error {
	if delta == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		next := c.lines[i].Quantity + delta
		if next < 1 {
			next = 1
		}
		if next > available {
			return insufficientStockError(productID, next, available)
		}
		c.lines[i].Quantity = next
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

// Remove deletes the line for the product. Removing an absent line is a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total sums line subtotals rounded to two decimals, half away from zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total.Round(2)
}

// Lines returns a copy of the current cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = nil
}

// SaleLines converts the cart into the persisted receipt snapshot shape.
func (c *Cart) SaleLines() types.SaleLines {
	lines := make(types.SaleLines, 0, len(c.lines))
	for _, line := range c.lines {
		lines = append(lines, types.SaleLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Brand:     line.Brand,
			Model:     line.Model,
			Category:  line.Category,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return lines
}

func insufficientStockError(productID uuid.UUID, requested, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds available stock").
		WithDetails(map[string]any{
			"product_id": productID.String(),
			"requested":  requested,
			"available":  available,
		})
}
