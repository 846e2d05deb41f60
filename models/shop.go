package models

import (
	"time"
)

// ProductOrder status constants
const (
	OrderStatusPaid    = "paid"
	OrderStatusSettled = "settled"
)

// Product is a shop item sold on behalf of an astrologer.
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AstrologerID uint      `json:"astrologer_id" gorm:"index"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"image_url"`
	Category     string    `json:"category"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Astrologer Astrologer `json:"-" gorm:"foreignKey:AstrologerID"`
}

// ProductOrder records a paid purchase. The astrologer's share is held back
// until the settlement sweep moves the order paid -> settled; that transition
// happens exactly once.
type ProductOrder struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	UserID                  uint      `json:"user_id" gorm:"index"`
	AstrologerID            uint      `json:"astrologer_id" gorm:"index"`
	ProductID               uint      `json:"product_id"`
	Quantity                int       `json:"quantity"`
	TotalAmount             float64   `json:"total_amount"`
	PlatformFeeAmount       float64   `json:"platform_fee_amount"`
	AstrologerEarningAmount float64   `json:"astrologer_earning_amount"`
	Status                  string    `json:"status" gorm:"default:'paid';index"`
	SettlementDueDate       time.Time `json:"settlement_due_date"`
	SettledAt               *time.Time `json:"settled_at,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`

	User    User    `json:"-" gorm:"foreignKey:UserID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
