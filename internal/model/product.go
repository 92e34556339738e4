package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowStockThreshold is the highest stock level still reported as low
const LowStockThreshold = 10

// Product represents a catalog entry owned by one merchant
type Product struct {
	ID          string          `json:"id" gorm:"type:varchar(64);primaryKey"`
	MerchantID  string          `json:"merchant_id" gorm:"type:varchar(64);index;not null"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null"`
	Category    *string         `json:"category,omitempty" gorm:"type:varchar(100);index"`
	ImageURL    *string         `json:"image_url,omitempty" gorm:"type:text"`
	IsActive    bool            `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeCreate assigns an id when the caller did not
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsLowStock reports whether an active product is at or below the threshold.
// Inactive products are never low stock.
func (p Product) IsLowStock() bool {
	return p.IsActive && p.Stock <= LowStockThreshold
}
