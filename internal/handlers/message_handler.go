package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anikraj/bumble-clone/backend/internal/apperrors"
	"github.com/anikraj/bumble-clone/backend/internal/cache"
	"github.com/anikraj/bumble-clone/backend/internal/logger"
	"github.com/anikraj/bumble-clone/backend/internal/middleware"
	"github.com/anikraj/bumble-clone/backend/internal/models"
	"github.com/anikraj/bumble-clone/backend/internal/realtime"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
)

// MessageHandler handles sending, listing and read-marking of messages
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	chatRepository    repositories.ChatRepository
	cache             *cache.RedisCache
	rt                *realtime.Manager
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	messageRepo repositories.MessageRepository,
	chatRepo repositories.ChatRepository,
	redisCache *cache.RedisCache,
	rt *realtime.Manager,
) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		chatRepository:    chatRepo,
		cache:             redisCache,
		rt:                rt,
	}
}

// RegisterMessageRoutes registers message routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/:chatId", h.GetChatMessages)
	g.POST("", h.SendMessage)
	g.PATCH("/:chatId/read", h.MarkMessagesRead)
}

// GetChatMessages returns a page of messages of a chat, newest first. A chat
// the caller does not participate in is reported as absent.
func (h *MessageHandler) GetChatMessages(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)
	chatID := c.Param("chatId")

	isParticipant, err := h.chatRepository.IsParticipant(chatID, userID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !isParticipant {
		return echo.NewHTTPError(http.StatusNotFound, "Chat not found or access denied")
	}

	limit := 50
	offset := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = n
	}
	if raw := c.QueryParam("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid offset")
		}
		offset = n
	}

	messages, err := h.messageRepository.GetChatMessages(chatID, limit, offset)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// SendMessage persists a message from the authenticated user into a chat they
// participate in, invalidates the other participants' unread caches and
// publishes the message on the chat's realtime channel.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	var req models.CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	isParticipant, err := h.chatRepository.IsParticipant(req.ChatID, userID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !isParticipant {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a participant of this chat")
	}

	msg := &models.Message{
		ChatID:   req.ChatID,
		SenderID: userID,
		Text:     req.Text,
		ImageURL: req.ImageURL,
	}
	if err := h.messageRepository.CreateMessage(msg); err != nil {
		return apperrors.HTTP(err)
	}

	ctx := c.Request().Context()

	participantIDs, err := h.chatRepository.GetParticipantIDs(req.ChatID)
	if err == nil {
		others := participantIDs[:0:0]
		for _, id := range participantIDs {
			if id != userID {
				others = append(others, id)
			}
		}
		if err := h.cache.InvalidateUnread(ctx, req.ChatID, others...); err != nil {
			logger.Debug("failed to invalidate unread cache", "chat", req.ChatID, "err", err)
		}
	} else {
		logger.Debug("failed to load participants for invalidation", "chat", req.ChatID, "err", err)
	}

	if err := h.rt.Publish(ctx, realtime.ChatChannel(req.ChatID), msg); err != nil {
		logger.Debug("failed to publish message event", "chat", req.ChatID, "err", err)
	}

	return c.JSON(http.StatusCreated, msg)
}

// MarkMessagesRead marks every message in the chat not sent by the caller as
// read and drops the caller's cached unread count.
func (h *MessageHandler) MarkMessagesRead(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)
	chatID := c.Param("chatId")

	isParticipant, err := h.chatRepository.IsParticipant(chatID, userID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !isParticipant {
		return echo.NewHTTPError(http.StatusNotFound, "Chat not found or access denied")
	}

	if err := h.messageRepository.MarkMessagesRead(chatID, userID); err != nil {
		return apperrors.HTTP(err)
	}

	if err := h.cache.InvalidateUnread(c.Request().Context(), chatID, userID); err != nil {
		logger.Debug("failed to invalidate unread cache", "chat", chatID, "err", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
