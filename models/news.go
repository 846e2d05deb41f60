package models

import (
	"time"
)

// News is a content entry shown on the home feed, managed by admins.
type News struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `json:"title" gorm:"not null"`
	Summary   string    `json:"summary" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
