package models

import "time"

// Like is a directed interest edge from one user to another. The composite
// primary key guarantees a single row per ordered pair, concurrent duplicate
// requests included.
type Like struct {
	LikerID   string    `json:"liker_id" gorm:"primaryKey;size:36;index:idx_likee_liker,priority:2"`
	LikeeID   string    `json:"likee_id" gorm:"primaryKey;size:36;index:idx_likee_liker,priority:1"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLikeRequest defines the request body for liking another user
type CreateLikeRequest struct {
	LikeeID string `json:"likeeId" validate:"required"`
}

// MatchEntry pairs a matched profile with the moment the match completed
// (the later of the two like timestamps).
type MatchEntry struct {
	Match     UserWithInterests `json:"match"`
	MatchedAt time.Time         `json:"matchedAt"`
}
