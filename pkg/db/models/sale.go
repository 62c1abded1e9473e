package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcaolabs/pos-backend/pkg/enums"
	"github.com/balcaolabs/pos-backend/pkg/types"
)

// Sale is the immutable record of one committed checkout. Lines carries the
// denormalized receipt snapshot; normalized per-line rows live in SaleItem.
type Sale struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OccurredAt    time.Time           `gorm:"column:occurred_at;not null"`
	DayKey        string              `gorm:"column:day_key;not null;index"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	OperatorID    uuid.UUID           `gorm:"column:operator_id;type:uuid;not null"`
	Lines         types.SaleLines     `gorm:"column:lines;type:jsonb;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
