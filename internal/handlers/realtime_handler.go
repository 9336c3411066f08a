package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/anikraj/bumble-clone/backend/internal/apperrors"
	"github.com/anikraj/bumble-clone/backend/internal/middleware"
	"github.com/anikraj/bumble-clone/backend/internal/realtime"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
	"github.com/anikraj/bumble-clone/backend/pkg/config"
)

// RealtimeHandler brokers credentials for direct realtime access and exposes
// a server-side demonstration subscription.
type RealtimeHandler struct {
	cfg            config.RealtimeConfig
	chatRepository repositories.ChatRepository
	rt             *realtime.Manager
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(cfg config.RealtimeConfig, chatRepo repositories.ChatRepository, rt *realtime.Manager) *RealtimeHandler {
	return &RealtimeHandler{
		cfg:            cfg,
		chatRepository: chatRepo,
		rt:             rt,
	}
}

// RegisterRealtimeRoutes registers realtime routes
func (h *RealtimeHandler) RegisterRealtimeRoutes(g *echo.Group) {
	g.GET("/credentials", h.GetCredentials)
	g.POST("/subscribe/chat/:chatId", h.SubscribeToChat)
}

// GetCredentials hands out the connection details clients use to subscribe to
// the realtime service directly. The anon key is scoped for subscription
// only; writes still go through the API.
func (h *RealtimeHandler) GetCredentials(c echo.Context) error {
	if h.cfg.URL == "" || h.cfg.AnonKey == "" {
		return echo.NewHTTPError(http.StatusInternalServerError, "Realtime service is not configured")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"url":      h.cfg.URL,
		"anon_key": h.cfg.AnonKey,
	})
}

// SubscribeToChat opens a server-side subscription to the chat's channel.
// Clients normally subscribe directly with the brokered credentials; this
// endpoint exists to exercise the channel plumbing.
func (h *RealtimeHandler) SubscribeToChat(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)
	chatID := c.Param("chatId")

	isParticipant, err := h.chatRepository.IsParticipant(chatID, userID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !isParticipant {
		return echo.NewHTTPError(http.StatusNotFound, "Chat not found or access denied")
	}

	h.rt.Subscribe(realtime.ChatChannel(chatID))

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"message":         "Subscribed to chat " + chatID,
		"subscription_id": uuid.NewString(),
	})
}
