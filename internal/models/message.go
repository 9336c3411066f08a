package models

import "time"

// Message is immutable once created except for IsRead, which only ever
// transitions false to true.
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ChatID    string    `json:"chat_id" gorm:"size:36;index;not null"`
	SenderID  string    `json:"sender_id" gorm:"size:36;index;not null"`
	Text      string    `json:"text" gorm:"not null"`
	ImageURL  string    `json:"image_url,omitempty"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreateMessageRequest defines the request body for sending a message
type CreateMessageRequest struct {
	ChatID   string `json:"chat_id" validate:"required"`
	Text     string `json:"text" validate:"required"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}
