package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/models"
)

// ChatRepository defines the interface for chat and membership operations
type ChatRepository interface {
	CreateOrGetChat(userIDs []string) (*models.Chat, error)
	GetChat(chatID string) (*models.Chat, error)
	FindExistingChatBetween(userA, userB string) (string, error)
	GetChatIDsOf(userID string) ([]string, error)
	GetParticipantIDs(chatID string) ([]string, error)
	IsParticipant(chatID, userID string) (bool, error)
}

// PostgresChatRepository implements ChatRepository for PostgreSQL
type PostgresChatRepository struct {
	db *gorm.DB
}

// NewPostgresChatRepository creates a new PostgresChatRepository
func NewPostgresChatRepository(db *gorm.DB) *PostgresChatRepository {
	return &PostgresChatRepository{db: db}
}

// CreateOrGetChat returns the existing chat for a pair of users, or creates a
// new chat with the given membership. Requires at least two distinct
// participants. Chat row and memberships are written in one transaction, so a
// failure never leaves an orphaned chat behind.
func (r *PostgresChatRepository) CreateOrGetChat(userIDs []string) (*models.Chat, error) {
	distinct := dedupe(userIDs)
	if len(distinct) < 2 {
		return nil, fmt.Errorf("chat requires at least 2 distinct participants")
	}

	if len(distinct) == 2 {
		existingID, err := r.FindExistingChatBetween(distinct[0], distinct[1])
		if err != nil {
			return nil, err
		}
		if existingID != "" {
			return r.GetChat(existingID)
		}
	}

	chat := &models.Chat{ID: uuid.NewString()}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		participants := make([]models.ChatParticipant, 0, len(distinct))
		for _, id := range distinct {
			participants = append(participants, models.ChatParticipant{ChatID: chat.ID, UserID: id})
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// GetChat retrieves the bare chat row
func (r *PostgresChatRepository) GetChat(chatID string) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.Where("id = ?", chatID).First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindExistingChatBetween returns the identifier of a chat whose membership
// is exactly the given pair, or "" when none exists.
func (r *PostgresChatRepository) FindExistingChatBetween(userA, userB string) (string, error) {
	var row struct{ ChatID string }
	res := r.db.Raw(`
		SELECT cp.chat_id AS chat_id
		FROM chat_participants cp
		WHERE cp.user_id IN (?, ?)
		GROUP BY cp.chat_id
		HAVING COUNT(DISTINCT cp.user_id) = 2
		   AND (SELECT COUNT(*) FROM chat_participants cp2 WHERE cp2.chat_id = cp.chat_id) = 2
		LIMIT 1`, userA, userB).Scan(&row)
	if res.Error != nil {
		return "", res.Error
	}
	return row.ChatID, nil
}

// GetChatIDsOf returns the identifiers of every chat the user participates in
func (r *PostgresChatRepository) GetChatIDsOf(userID string) ([]string, error) {
	ids := []string{}
	err := r.db.Model(&models.ChatParticipant{}).
		Where("user_id = ?", userID).
		Pluck("chat_id", &ids).Error
	return ids, err
}

// GetParticipantIDs returns the membership of a chat
func (r *PostgresChatRepository) GetParticipantIDs(chatID string) ([]string, error) {
	ids := []string{}
	err := r.db.Model(&models.ChatParticipant{}).
		Where("chat_id = ?", chatID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// IsParticipant checks whether a user is a member of a chat
func (r *PostgresChatRepository) IsParticipant(chatID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

// dedupe preserves first occurrence order while dropping repeats.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
