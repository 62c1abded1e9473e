package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/balcaolabs/pos-backend/pkg/enums"
)

// Operator is an authenticated POS user.
type Operator struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string             `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	Name         string             `gorm:"column:name;not null"`
	Role         enums.OperatorRole `gorm:"column:role;not null;default:'cashier'"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
