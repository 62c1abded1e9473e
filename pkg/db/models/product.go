package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents one stocked catalog item. Quantity is the authoritative
// on-hand count; it is only decremented through committed sales.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Brand        string          `gorm:"column:brand"`
	Model        string          `gorm:"column:model"`
	Category     string          `gorm:"column:category;not null"`
	Size         string          `gorm:"column:size"`
	Tags         pq.StringArray  `gorm:"column:tags;type:text[]"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null;default:0"`
	MinQuantity  int             `gorm:"column:min_quantity;not null;default:5"`
	Barcode      string          `gorm:"column:barcode;index"`
	InternalCode string          `gorm:"column:internal_code;index"`
	SupplierID   *uuid.UUID      `gorm:"column:supplier_id;type:uuid;index"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
