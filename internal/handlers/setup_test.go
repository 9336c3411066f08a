package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/auth"
	"github.com/anikraj/bumble-clone/backend/internal/cache"
	"github.com/anikraj/bumble-clone/backend/internal/handlers"
	"github.com/anikraj/bumble-clone/backend/internal/middleware"
	"github.com/anikraj/bumble-clone/backend/internal/models"
	"github.com/anikraj/bumble-clone/backend/internal/realtime"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
	"github.com/anikraj/bumble-clone/backend/internal/router"
	"github.com/anikraj/bumble-clone/backend/pkg/config"
	"github.com/anikraj/bumble-clone/backend/validators"
)

// env wires the full handler stack against in-memory backends.
type env struct {
	e      *echo.Echo
	db     *gorm.DB
	users  repositories.UserRepository
	tokens *auth.TokenManager
}

func setupEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
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

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	rt := realtime.NewManager(redisClient, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(rt.Close)

	userRepo := repositories.NewPostgresUserRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	chatRepo := repositories.NewPostgresChatRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)
	redisCache := cache.New(redisClient)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = router.ErrorHandler(&config.Config{Env: "test"})

	jwtMW := middleware.JWTAuthMiddleware(tokens)
	adminMW := middleware.AdminMiddleware(userRepo)

	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	authHandler.RegisterAuthRoutes(e.Group("/auth"))
	authHandler.RegisterSessionRoutes(e.Group("/auth", jwtMW))

	handlers.NewUserHandler(userRepo).RegisterUserRoutes(e.Group("/users", jwtMW), adminMW)
	handlers.NewMatchHandler(likeRepo, userRepo, chatRepo, rt).RegisterMatchRoutes(e.Group("/matches", jwtMW))
	handlers.NewChatHandler(chatRepo, messageRepo, userRepo, redisCache).RegisterChatRoutes(e.Group("/chats", jwtMW))
	handlers.NewMessageHandler(messageRepo, chatRepo, redisCache, rt).RegisterMessageRoutes(e.Group("/messages", jwtMW))

	return &env{e: e, db: db, users: userRepo, tokens: tokens}
}

// seedUser inserts a profile directly and returns it with a valid token.
func (te *env) seedUser(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        name + "@gmail.com",
		Name:         name,
		PasswordHash: string(hash),
		Location:     "Berlin",
		LastActive:   time.Now(),
	}
	if err := te.db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	token, err := te.tokens.Issue(user.ID)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return user, token
}

// do performs a request against the wired router and decodes the JSON body.
func (te *env) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	te.e.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			// list responses are decoded by the caller
			decoded = nil
		}
	}
	return rec.Code, decoded
}

// doList is do for endpoints returning a JSON array.
func (te *env) doList(t *testing.T, method, path, token string) (int, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, http.NoBody)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	te.e.ServeHTTP(rec, req)

	var decoded []map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec.Code, decoded
}
