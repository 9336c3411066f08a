package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/models"
)

// MessageRepository defines the interface for message persistence and
// read/unread accounting
type MessageRepository interface {
	CreateMessage(msg *models.Message) error
	GetChatMessages(chatID string, limit, offset int) ([]models.Message, error)
	GetLastMessage(chatID string) (*models.Message, error)
	MarkMessagesRead(chatID, viewerID string) error
	GetUnreadCount(chatID, viewerID string) (int64, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage persists a message unread and bumps the owning chat's
// updated timestamp in the same transaction.
func (r *PostgresMessageRepository) CreateMessage(msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.IsRead = false
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).
			Where("id = ?", msg.ChatID).
			Update("updated_at", time.Now()).Error
	})
}

// GetChatMessages retrieves a page of messages, newest first
func (r *PostgresMessageRepository) GetChatMessages(chatID string, limit, offset int) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

// GetLastMessage returns the newest message of a chat, or nil when the chat
// has no messages yet.
func (r *PostgresMessageRepository) GetLastMessage(chatID string) (*models.Message, error) {
	var msg models.Message
	err := r.db.
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		First(&msg).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkMessagesRead flips is_read for every unread message in the chat not
// sent by the viewer. Running it twice is a no-op.
func (r *PostgresMessageRepository) MarkMessagesRead(chatID, viewerID string) error {
	return r.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, viewerID, false).
		Update("is_read", true).Error
}

// GetUnreadCount counts messages in the chat with sender != viewer that are
// still unread. A viewer's own messages never count toward their total.
func (r *PostgresMessageRepository) GetUnreadCount(chatID, viewerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, viewerID, false).
		Count(&count).Error
	return count, err
}
