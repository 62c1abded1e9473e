package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/balcaolabs/pos-backend/pkg/enums"
)

// LabelJob is one queued label print request. Rendering happens elsewhere;
// the backend only tracks the queue.
type LabelJob struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID            `gorm:"column:product_id;type:uuid;not null;index"`
	Copies      int                  `gorm:"column:copies;not null;default:1"`
	Status      enums.LabelJobStatus `gorm:"column:status;not null;default:'pending';index"`
	RequestedBy uuid.UUID            `gorm:"column:requested_by;type:uuid;not null"`
	PrintedAt   *time.Time           `gorm:"column:printed_at"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}
