package models

import (
	"time"
)

// User roles
const (
	RoleUser       = "user"
	RoleAstrologer = "astrologer"
	RoleAdmin      = "admin"
)

// User represents an account in the system. One wallet balance per user;
// the role gates endpoint access.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `json:"name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Password      string    `json:"-"`
	Role          string    `json:"role" gorm:"default:'user'"`
	WalletBalance float64   `json:"wallet_balance" gorm:"default:0"`
	DateOfBirth   string    `json:"date_of_birth,omitempty"`
	TimeOfBirth   string    `json:"time_of_birth,omitempty"`
	PlaceOfBirth  string    `json:"place_of_birth,omitempty"`
	ProfileImage  string    `json:"profile_image,omitempty"`
	GoogleID      *string   `gorm:"uniqueIndex;default:null" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	AstrologerProfile *Astrologer   `json:"astrologer_profile,omitempty" gorm:"foreignKey:UserID"`
	Transactions      []Transaction `json:"transactions,omitempty" gorm:"foreignKey:UserID"`
}
