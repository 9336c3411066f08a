package models

import "time"

// User is a dating profile stored in PostgreSQL. IDs are UUID strings so
// profiles, chats and messages share the same identifier shape.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:128;not null"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Age          int       `json:"age,omitempty"`
	Location     string    `json:"location,omitempty" gorm:"size:255;index"`
	Bio          string    `json:"bio,omitempty" gorm:"size:500"`
	Job          string    `json:"job,omitempty" gorm:"size:100"`
	ImageURL     string    `json:"image_url,omitempty"`
	IsOnline     bool      `json:"is_online" gorm:"default:false"`
	IsAdmin      bool      `json:"-" gorm:"default:false"`
	LastActive   time.Time `json:"last_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Interest is a normalized lowercase tag shared across users. Created lazily
// on first use, never deleted.
type Interest struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:64;not null"`
}

// UserInterest links a profile to an interest (many-to-many join table).
type UserInterest struct {
	UserID     string `gorm:"primaryKey;size:36"`
	InterestID uint   `gorm:"primaryKey"`
}

// UserWithInterests is the profile shape returned by the API: the profile row
// plus its interest tags flattened to names.
type UserWithInterests struct {
	User
	Interests []string `json:"interests"`
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Age      int    `json:"age,omitempty" validate:"omitempty,min=18,max=100"`
	Location string `json:"location,omitempty"`
}

// LoginRequest defines the request body for authentication
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the request body for partial profile updates.
// A nil Interests slice leaves the user's interests untouched; a non-nil
// slice fully replaces them.
type UpdateUserRequest struct {
	Name      string   `json:"name,omitempty"`
	Age       int      `json:"age,omitempty" validate:"omitempty,min=18,max=100"`
	Location  string   `json:"location,omitempty"`
	Bio       string   `json:"bio,omitempty" validate:"omitempty,max=500"`
	Job       string   `json:"job,omitempty"`
	ImageURL  string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Interests []string `json:"interests,omitempty"`
}
