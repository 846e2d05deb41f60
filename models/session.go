package models

import (
	"time"
)

// Session status constants
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// Session type constants
const (
	SessionTypeCall = "call"
	SessionTypeChat = "chat"
)

// Session is one consultation between a user and an astrologer. Created on
// start with status active; closed exactly once, at which point duration and
// cost are fixed and never renegotiated.
type Session struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `json:"user_id" gorm:"index"`
	AstrologerID uint       `json:"astrologer_id" gorm:"index"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Duration     int        `json:"duration" gorm:"default:0"` // whole seconds
	Cost         float64    `json:"cost" gorm:"default:0"`
	Status       string     `json:"status" gorm:"default:'active'"`
	Type         string     `json:"type" gorm:"default:'call'"`
	IsFreeTrial  bool       `json:"is_free_trial" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User       User       `json:"-" gorm:"foreignKey:UserID"`
	Astrologer Astrologer `json:"-" gorm:"foreignKey:AstrologerID"`
}
