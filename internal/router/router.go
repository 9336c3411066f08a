package router

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/anikraj/bumble-clone/backend/internal/auth"
	"github.com/anikraj/bumble-clone/backend/internal/cache"
	"github.com/anikraj/bumble-clone/backend/internal/handlers"
	"github.com/anikraj/bumble-clone/backend/internal/logger"
	"github.com/anikraj/bumble-clone/backend/internal/middleware"
	"github.com/anikraj/bumble-clone/backend/internal/models"
	"github.com/anikraj/bumble-clone/backend/internal/realtime"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
	"github.com/anikraj/bumble-clone/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status}
			if v.Error != nil {
				attrs = append(attrs, "err", v.Error)
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config, rt *realtime.Manager) {
	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Interest{},
		&models.UserInterest{},
		&models.Like{},
		&models.Chat{},
		&models.ChatParticipant{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	e.HTTPErrorHandler = ErrorHandler(cfg)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", handlers.Root)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	chatRepo := repositories.NewPostgresChatRepository(db.Postgres)
	messageRepo := repositories.NewPostgresMessageRepository(db.Postgres)

	redisCache := cache.New(db.Redis)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	authHandler.RegisterAuthRoutes(e.Group("/auth"))
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	jwtMW := middleware.JWTAuthMiddleware(tokens)
	adminMW := middleware.AdminMiddleware(userRepo)

	sessionGroup := e.Group("/auth", jwtMW)
	authHandler.RegisterSessionRoutes(sessionGroup)

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(e.Group("/users", jwtMW), adminMW)
	log.Println("User profile routes configured.")

	matchHandler := handlers.NewMatchHandler(likeRepo, userRepo, chatRepo, rt)
	matchHandler.RegisterMatchRoutes(e.Group("/matches", jwtMW))
	log.Println("Match routes configured.")

	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, userRepo, redisCache)
	chatHandler.RegisterChatRoutes(e.Group("/chats", jwtMW))
	log.Println("Chat routes configured.")

	messageHandler := handlers.NewMessageHandler(messageRepo, chatRepo, redisCache, rt)
	messageHandler.RegisterMessageRoutes(e.Group("/messages", jwtMW))
	log.Println("Message routes configured.")

	realtimeHandler := handlers.NewRealtimeHandler(cfg.Realtime, chatRepo, rt)
	realtimeHandler.RegisterRealtimeRoutes(e.Group("/realtime", jwtMW))
	log.Println("Realtime routes configured.")
}

// ErrorHandler renders every error as {"error": message}. Internal causes are
// only exposed in development.
func ErrorHandler(cfg *config.Config) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal Server Error"
		var internal error

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
			internal = he.Internal
		}

		body := echo.Map{"error": message}
		if internal != nil {
			logger.Error("request failed", "uri", c.Request().RequestURI, "err", internal)
			if cfg.IsDevelopment() {
				body["detail"] = internal.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}
