package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItem mirrors one sale line as a standalone row for per-line queries.
// Created in the same transaction as its parent Sale, never mutated after.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID    uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Brand     string          `gorm:"column:brand"`
	Model     string          `gorm:"column:model"`
	Category  string          `gorm:"column:category"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DayKey    string          `gorm:"column:day_key;not null;index"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
