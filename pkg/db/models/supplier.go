package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier holds the vendor record products and payables reference.
type Supplier struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Company   string    `gorm:"column:company;not null"`
	CNPJ      string    `gorm:"column:cnpj;index"`
	Contact   string    `gorm:"column:contact"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone"`
	Address   string    `gorm:"column:address"`
	Notes     string    `gorm:"column:notes"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
