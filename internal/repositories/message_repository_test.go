package repositories_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/models"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
)

func seedChat(t *testing.T, db *gorm.DB, userIDs ...string) *models.Chat {
	t.Helper()
	chat, err := repositories.NewPostgresChatRepository(db).CreateOrGetChat(userIDs)
	if err != nil {
		t.Fatalf("failed to seed chat: %v", err)
	}
	return chat
}

func TestCreateMessageBumpsChat(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresMessageRepository(db)

	a := seedUser(t, db, "alice", "Berlin")
	b := seedUser(t, db, "bob", "Berlin")
	chat := seedChat(t, db, a.ID, b.ID)

	before := chat.UpdatedAt
	time.Sleep(5 * time.Millisecond)

	msg := &models.Message{ChatID: chat.ID, SenderID: a.ID, Text: "hey"}
	assert.NoError(t, repo.CreateMessage(msg))
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.IsRead)

	var bumped models.Chat
	assert.NoError(t, db.First(&bumped, "id = ?", chat.ID).Error)
	assert.True(t, bumped.UpdatedAt.After(before))
}

func TestGetChatMessagesNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresMessageRepository(db)

	a := seedUser(t, db, "alice", "Berlin")
	b := seedUser(t, db, "bob", "Berlin")
	chat := seedChat(t, db, a.ID, b.ID)

	for i, text := range []string{"first", "second", "third"} {
		msg := &models.Message{ChatID: chat.ID, SenderID: a.ID, Text: text}
		assert.NoError(t, repo.CreateMessage(msg))
		// distinct timestamps keep the ordering deterministic
		db.Model(msg).Update("created_at", time.Now().Add(time.Duration(i)*time.Second))
	}

	messages, err := repo.GetChatMessages(chat.ID, 2, 0)
	assert.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, "third", messages[0].Text)
	assert.Equal(t, "second", messages[1].Text)

	messages, err = repo.GetChatMessages(chat.ID, 2, 2)
	assert.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, "first", messages[0].Text)
}

func TestGetLastMessage(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresMessageRepository(db)

	a := seedUser(t, db, "alice", "Berlin")
	b := seedUser(t, db, "bob", "Berlin")
	chat := seedChat(t, db, a.ID, b.ID)

	// empty chat yields nil, not an error
	last, err := repo.GetLastMessage(chat.ID)
	assert.NoError(t, err)
	assert.Nil(t, last)

	older := &models.Message{ChatID: chat.ID, SenderID: a.ID, Text: "older"}
	assert.NoError(t, repo.CreateMessage(older))
	db.Model(older).Update("created_at", time.Now().Add(-time.Minute))

	newer := &models.Message{ChatID: chat.ID, SenderID: b.ID, Text: "newer"}
	assert.NoError(t, repo.CreateMessage(newer))

	last, err = repo.GetLastMessage(chat.ID)
	assert.NoError(t, err)
	assert.NotNil(t, last)
	assert.Equal(t, "newer", last.Text)
}

func TestUnreadCountExcludesOwnMessages(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresMessageRepository(db)

	a := seedUser(t, db, "alice", "Berlin")
	b := seedUser(t, db, "bob", "Berlin")
	chat := seedChat(t, db, a.ID, b.ID)

	assert.NoError(t, repo.CreateMessage(&models.Message{ChatID: chat.ID, SenderID: a.ID, Text: "one"}))
	assert.NoError(t, repo.CreateMessage(&models.Message{ChatID: chat.ID, SenderID: a.ID, Text: "two"}))
	assert.NoError(t, repo.CreateMessage(&models.Message{ChatID: chat.ID, SenderID: b.ID, Text: "reply"}))

	count, err := repo.GetUnreadCount(chat.ID, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.GetUnreadCount(chat.ID, a.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkMessagesReadIsViewerScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresMessageRepository(db)

	a := seedUser(t, db, "alice", "Berlin")
	b := seedUser(t, db, "bob", "Berlin")
	chat := seedChat(t, db, a.ID, b.ID)

	assert.NoError(t, repo.CreateMessage(&models.Message{ChatID: chat.ID, SenderID: a.ID, Text: "one"}))
	assert.NoError(t, repo.CreateMessage(&models.Message{ChatID: chat.ID, SenderID: b.ID, Text: "reply"}))

	assert.NoError(t, repo.MarkMessagesRead(chat.ID, b.ID))

	// b's view is cleared, a still has b's reply unread
	count, err := repo.GetUnreadCount(chat.ID, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repo.GetUnreadCount(chat.ID, a.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// running it again is a no-op
	assert.NoError(t, repo.MarkMessagesRead(chat.ID, b.ID))
	count, err = repo.GetUnreadCount(chat.ID, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
