package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/apperrors"
	"github.com/anikraj/bumble-clone/backend/internal/cache"
	"github.com/anikraj/bumble-clone/backend/internal/logger"
	"github.com/anikraj/bumble-clone/backend/internal/middleware"
	"github.com/anikraj/bumble-clone/backend/internal/models"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
)

// ChatHandler handles chat rooms and their per-viewer projections
type ChatHandler struct {
	chatRepository    repositories.ChatRepository
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
	cache             *cache.RedisCache
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(
	chatRepo repositories.ChatRepository,
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	redisCache *cache.RedisCache,
) *ChatHandler {
	return &ChatHandler{
		chatRepository:    chatRepo,
		messageRepository: messageRepo,
		userRepository:    userRepo,
		cache:             redisCache,
	}
}

// RegisterChatRoutes registers chat routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("", h.GetUserChats)
	g.POST("", h.CreateChat)
	g.GET("/unread-counts", h.GetUnreadCounts)
	g.GET("/:chatId", h.GetChatByID)
}

// GetUserChats lists every chat the authenticated user participates in, each
// populated with last message and the caller's unread count.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	chatIDs, err := h.chatRepository.GetChatIDsOf(userID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	chats := make([]models.ChatView, 0, len(chatIDs))
	for _, chatID := range chatIDs {
		view, err := h.buildChatView(chatID, userID)
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return apperrors.HTTP(err)
		}
		chats = append(chats, *view)
	}
	return c.JSON(http.StatusOK, chats)
}

// GetChatByID returns one chat as seen by the caller. A chat the caller does
// not participate in is reported as absent, indistinguishable from one that
// does not exist.
func (h *ChatHandler) GetChatByID(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	chatID := c.Param("chatId")
	isParticipant, err := h.chatRepository.IsParticipant(chatID, userID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !isParticipant {
		return echo.NewHTTPError(http.StatusNotFound, "Chat not found or access denied")
	}

	view, err := h.buildChatView(chatID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Chat not found or access denied")
		}
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, view)
}

// CreateChat creates a chat for the given participants, always including the
// caller. Creating a second chat for the same pair returns the existing one.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	var req models.CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	userIDs := req.UserIDs
	if !containsString(userIDs, userID) {
		userIDs = append([]string{userID}, userIDs...)
	}

	chat, err := h.chatRepository.CreateOrGetChat(userIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.buildChatView(chat.ID, userID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusCreated, view)
}

// GetUnreadCounts maps every chat of the caller to its unread count,
// cache-first with the database as fallback.
func (h *ChatHandler) GetUnreadCounts(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)
	ctx := c.Request().Context()

	chatIDs, err := h.chatRepository.GetChatIDsOf(userID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	counts := make(map[string]int64, len(chatIDs))
	for _, chatID := range chatIDs {
		if cached, ok, err := h.cache.GetUnreadCount(ctx, chatID, userID); err == nil && ok {
			counts[chatID] = cached
			continue
		}

		count, err := h.messageRepository.GetUnreadCount(chatID, userID)
		if err != nil {
			return apperrors.HTTP(err)
		}
		counts[chatID] = count

		if err := h.cache.SetUnreadCount(ctx, chatID, userID, count); err != nil {
			logger.Debug("failed to cache unread count", "chat", chatID, "err", err)
		}
	}
	return c.JSON(http.StatusOK, counts)
}

// buildChatView assembles the viewer-scoped projection of a chat.
func (h *ChatHandler) buildChatView(chatID, viewerID string) (*models.ChatView, error) {
	chat, err := h.chatRepository.GetChat(chatID)
	if err != nil {
		return nil, err
	}

	participantIDs, err := h.chatRepository.GetParticipantIDs(chatID)
	if err != nil {
		return nil, err
	}
	participants := make([]models.UserWithInterests, 0, len(participantIDs))
	for _, id := range participantIDs {
		profile, err := h.userRepository.GetUserByID(id)
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		participants = append(participants, *profile)
	}

	lastMessage, err := h.messageRepository.GetLastMessage(chatID)
	if err != nil {
		return nil, err
	}

	unread, err := h.messageRepository.GetUnreadCount(chatID, viewerID)
	if err != nil {
		return nil, err
	}

	return &models.ChatView{
		Chat:         *chat,
		Participants: participants,
		LastMessage:  lastMessage,
		UnreadCount:  unread,
	}, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
