package models

import (
	"time"
)

// TransactionType constants
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// Transaction is an append-only ledger entry. Every wallet balance mutation
// is mirrored by exactly one Transaction row; rows are never updated.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `json:"user_id" gorm:"index"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"` // credit, debit
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// WalletTopupOrder tracks a razorpay payment adding funds to a wallet.
type WalletTopupOrder struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `json:"user_id"`
	RazorpayOrderID string    `json:"razorpay_order_id" gorm:"uniqueIndex"`
	Amount          float64   `json:"amount"`
	Status          string    `json:"status"` // pending, completed, failed
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
