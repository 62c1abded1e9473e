package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcaolabs/pos-backend/pkg/enums"
	"github.com/balcaolabs/pos-backend/pkg/types"
)

// SaleCommittedEvent is emitted once per committed checkout.
type SaleCommittedEvent struct {
	SaleID        uuid.UUID           `json:"sale_id"`
	DayKey        string              `json:"day_key"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	OperatorID    uuid.UUID           `json:"operator_id"`
	OccurredAt    time.Time           `json:"occurred_at"`
	Lines         types.SaleLines     `json:"lines"`
}

// StockLowEvent signals a product dropped to or below its minimum quantity.
type StockLowEvent struct {
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
}

// LabelsQueuedEvent reports a batch of label print jobs was enqueued.
type LabelsQueuedEvent struct {
	JobIDs      []uuid.UUID `json:"job_ids"`
	ProductID   uuid.UUID   `json:"product_id"`
	Copies      int         `json:"copies"`
	RequestedBy uuid.UUID   `json:"requested_by"`
}
