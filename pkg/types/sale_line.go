package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine is the denormalized snapshot of one cart line embedded in a sale.
// Display fields are frozen at commit time so receipts survive later catalog
// edits.
type SaleLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	Model     string          `json:"model,omitempty"`
	Category  string          `json:"category,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal returns unit price times quantity for the line.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SaleLines maps to a jsonb column holding the embedded receipt lines.
type SaleLines []SaleLine

// Value implements driver.Valuer.
func (s SaleLines) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal sale lines: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (s *SaleLines) Scan(value interface{}) error {
	if value == nil {
		*s = SaleLines{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported sale lines column type %T", value)
	}
	if len(raw) == 0 {
		*s = SaleLines{}
		return nil
	}
	return json.Unmarshal(raw, s)
}
