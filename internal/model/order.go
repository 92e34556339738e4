package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/suteetoe/merchant-dashboard/internal/order"
)

// OrderItem is a snapshot of a product at ordering time, not a live reference
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns price * quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is created by the customer-facing flow and only changes status here
type Order struct {
	ID              string          `json:"id" gorm:"type:varchar(64);primaryKey"`
	MerchantID      string          `json:"merchant_id" gorm:"type:varchar(64);index:idx_orders_merchant_created,priority:1;not null"`
	CustomerName    string          `json:"customer_name" gorm:"type:varchar(255);not null"`
	CustomerPhone   *string         `json:"customer_phone,omitempty" gorm:"type:varchar(30)"`
	CustomerAddress *string         `json:"customer_address,omitempty" gorm:"type:text"`
	Status          order.Status    `json:"status" gorm:"type:varchar(20);index;not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Items           []OrderItem     `json:"items" gorm:"type:jsonb;serializer:json"`
	Notes           *string         `json:"notes,omitempty" gorm:"type:text"`
	Version         int             `json:"version" gorm:"not null;default:1"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index:idx_orders_merchant_created,priority:2"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate assigns an id and the initial status
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = order.StatusNew
	}
	return nil
}
