package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcaolabs/pos-backend/pkg/enums"
)

// Payable is one account-payable entry, usually tied to a supplier invoice.
type Payable struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID  *uuid.UUID          `gorm:"column:supplier_id;type:uuid;index"`
	Description string              `gorm:"column:description;not null"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	DueDate     time.Time           `gorm:"column:due_date;not null;index"`
	Status      enums.AccountStatus `gorm:"column:status;not null;default:'open'"`
	SettledAt   *time.Time          `gorm:"column:settled_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
