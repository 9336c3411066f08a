package repositories_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/models"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = database.AutoMigrate(
		&models.User{},
		&models.Interest{},
		&models.UserInterest{},
		&models.Like{},
		&models.Chat{},
		&models.ChatParticipant{},
		&models.Message{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func seedUser(t *testing.T, db *gorm.DB, name, location string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        name + "@gmail.com",
		Name:         name,
		PasswordHash: "x",
		Location:     location,
		LastActive:   time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	return user
}
