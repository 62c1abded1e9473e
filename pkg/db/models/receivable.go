package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcaolabs/pos-backend/pkg/enums"
)

// Receivable is one account-receivable entry. Deferred-payment sales insert
// one of these in the same transaction as the Sale itself.
type Receivable struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID       *uuid.UUID          `gorm:"column:sale_id;type:uuid;index"`
	CustomerName string              `gorm:"column:customer_name;not null"`
	Description  string              `gorm:"column:description"`
	Amount       decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	DueDate      time.Time           `gorm:"column:due_date;not null;index"`
	Status       enums.AccountStatus `gorm:"column:status;not null;default:'open'"`
	SettledAt    *time.Time          `gorm:"column:settled_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
