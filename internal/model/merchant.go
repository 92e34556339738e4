package model

import (
	"time"
)

const (
	DefaultShopName   = "My Shop"
	DefaultETAMinutes = 30
	MinETAMinutes     = 5
	MaxETAMinutes     = 120
)

// Merchant is the shop profile. There is exactly one per identity, so the
// identity itself is the primary key.
type Merchant struct {
	ID         string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Email      string    `json:"email" gorm:"type:varchar(100)"`
	ShopName   string    `json:"shop_name" gorm:"type:varchar(100);not null"`
	Address    *string   `json:"address,omitempty" gorm:"type:text"`
	Phone      *string   `json:"phone,omitempty" gorm:"type:varchar(30)"`
	IsOpen     bool      `json:"is_open" gorm:"not null"`
	ETAMinutes int       `json:"eta_minutes" gorm:"not null;check:eta_minutes BETWEEN 5 AND 120"`
	LogoURL    *string   `json:"logo_url,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewDefaultMerchant returns the record created lazily on first visit
func NewDefaultMerchant(identity, email string) *Merchant {
	return &Merchant{
		ID:         identity,
		Email:      email,
		ShopName:   DefaultShopName,
		IsOpen:     false,
		ETAMinutes: DefaultETAMinutes,
	}
}
