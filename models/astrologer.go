package models

import (
	"time"
)

// Astrologer verification states
const (
	AstrologerStatusPending  = "pending"
	AstrologerStatusApproved = "approved"
	AstrologerStatusRejected = "rejected"
)

// Astrologer is the professional profile attached to a user account.
// Created when the user applies; only approved profiles are listed publicly.
type Astrologer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `json:"user_id" gorm:"index"`
	User            User      `json:"-" gorm:"foreignKey:UserID"`
	Name            string    `json:"name"`
	Email           string    `gorm:"uniqueIndex" json:"email"`
	Phone           string    `json:"phone"`
	Experience      int       `json:"experience"`
	Specialties     []string  `gorm:"serializer:json" json:"specialties"`
	Languages       []string  `gorm:"serializer:json" json:"languages"`
	Bio             string    `json:"bio"`
	ApplicationDate time.Time `json:"application_date"`

	Status             string  `json:"status" gorm:"default:'pending'"`
	VerificationStatus string  `json:"verification_status" gorm:"default:'pending'"`
	Rating             float64 `json:"rating" gorm:"default:0"`
	TotalReviews       int     `json:"total_reviews" gorm:"default:0"`
	TotalCalls         int     `json:"total_calls" gorm:"default:0"`
	Earnings           float64 `json:"earnings" gorm:"default:0"`
	Rate               float64 `json:"rate" gorm:"default:10"` // currency per minute

	IsOnline          bool       `json:"is_online" gorm:"default:false"`
	IsLive            bool       `json:"is_live" gorm:"default:false"`
	IsBoosted         bool       `json:"is_boosted" gorm:"default:false"`
	FollowersCount    int        `json:"followers_count" gorm:"default:0"`
	LastOnlineTime    *time.Time `json:"last_online_time,omitempty"`
	TotalLoginMinutes int        `json:"total_login_minutes" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Review is a user's rating of an astrologer. The astrologer row caches the
// running average in Rating/TotalReviews.
type Review struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AstrologerID uint       `json:"astrologer_id" gorm:"index"`
	UserID       uint       `json:"user_id"`
	User         User       `json:"user" gorm:"foreignKey:UserID"`
	Rating       int        `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Comment      string     `json:"comment"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Astrologer   Astrologer `json:"-" gorm:"foreignKey:AstrologerID"`
}
