package models

import "time"

// Chat is a conversation container. Membership lives in ChatParticipant;
// everything else about a chat (last message, unread count) is derived per
// viewing user.
type Chat struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatParticipant links a user to a chat (many-to-many join table).
type ChatParticipant struct {
	ChatID string `gorm:"primaryKey;size:36;index"`
	UserID string `gorm:"primaryKey;size:36;index"`
}

// ChatView is a chat as seen by one participant: the chat row, its member
// profiles, the latest message and the viewer's unread count.
type ChatView struct {
	Chat
	Participants []UserWithInterests `json:"participants"`
	LastMessage  *Message            `json:"last_message,omitempty"`
	UnreadCount  int64               `json:"unread_count"`
}

// CreateChatRequest defines the request body for creating a chat. The calling
// user is always added to the participant set.
type CreateChatRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1,dive,required"`
}
