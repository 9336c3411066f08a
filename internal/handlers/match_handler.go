package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/apperrors"
	"github.com/anikraj/bumble-clone/backend/internal/logger"
	"github.com/anikraj/bumble-clone/backend/internal/middleware"
	"github.com/anikraj/bumble-clone/backend/internal/models"
	"github.com/anikraj/bumble-clone/backend/internal/realtime"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
)

// MatchHandler handles likes and the derived match state
type MatchHandler struct {
	likeRepository repositories.LikeRepository
	userRepository repositories.UserRepository
	chatRepository repositories.ChatRepository
	rt             *realtime.Manager
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(
	likeRepo repositories.LikeRepository,
	userRepo repositories.UserRepository,
	chatRepo repositories.ChatRepository,
	rt *realtime.Manager,
) *MatchHandler {
	return &MatchHandler{
		likeRepository: likeRepo,
		userRepository: userRepo,
		chatRepository: chatRepo,
		rt:             rt,
	}
}

// RegisterMatchRoutes registers like/match routes
func (h *MatchHandler) RegisterMatchRoutes(g *echo.Group) {
	g.POST("/like", h.CreateLike)
	g.DELETE("/like/:likeeId", h.RemoveLike)
	g.GET("/likes", h.GetLikes)
	g.GET("/matches", h.GetMatches)
	g.GET("/check/:otherUserId", h.CheckMatch)
}

// CreateLike records a like from the authenticated user. A repeated like is a
// no-op. When the like completes a mutual pair, a chat is created for the two
// users (idempotently) and the result reports the match.
func (h *MatchHandler) CreateLike(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	var req models.CreateLikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.LikeeID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot like yourself")
	}

	// Liking a nonexistent user fails loudly instead of writing a dangling edge.
	if _, err := h.userRepository.GetUserByID(req.LikeeID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return apperrors.HTTP(err)
	}

	created, err := h.likeRepository.CreateLike(userID, req.LikeeID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !created {
		return c.JSON(http.StatusOK, echo.Map{"liked": false, "isMatch": false})
	}

	isMatch, err := h.likeRepository.IsMatch(userID, req.LikeeID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	if isMatch {
		if _, err := h.chatRepository.CreateOrGetChat([]string{userID, req.LikeeID}); err != nil {
			return apperrors.HTTP(err)
		}
	}

	if err := h.rt.Publish(c.Request().Context(), realtime.MatchChannel(req.LikeeID), echo.Map{
		"liker_id": userID,
		"likee_id": req.LikeeID,
		"is_match": isMatch,
	}); err != nil {
		logger.Debug("failed to publish like event", "likee", req.LikeeID, "err", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": true, "isMatch": isMatch})
}

// RemoveLike deletes the like edge toward the given user; absence is not an
// error.
func (h *MatchHandler) RemoveLike(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	likeeID := c.Param("likeeId")
	if likeeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Likee ID is required")
	}

	if err := h.likeRepository.DeleteLike(userID, likeeID); err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetLikes lists the profiles of everyone who liked the authenticated user
func (h *MatchHandler) GetLikes(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	likerIDs, err := h.likeRepository.GetLikerIDs(userID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	likers := make([]models.UserWithInterests, 0, len(likerIDs))
	for _, id := range likerIDs {
		liker, err := h.userRepository.GetUserByID(id)
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return apperrors.HTTP(err)
		}
		likers = append(likers, *liker)
	}
	return c.JSON(http.StatusOK, likers)
}

// GetMatches lists every mutual-like counterpart with the match timestamp
func (h *MatchHandler) GetMatches(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	rows, err := h.likeRepository.GetMatches(userID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	matches := make([]models.MatchEntry, 0, len(rows))
	for _, row := range rows {
		profile, err := h.userRepository.GetUserByID(row.MatchID)
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return apperrors.HTTP(err)
		}
		matches = append(matches, models.MatchEntry{Match: *profile, MatchedAt: row.MatchedAt})
	}
	return c.JSON(http.StatusOK, matches)
}

// CheckMatch reports whether the authenticated user and the given user have
// liked each other.
func (h *MatchHandler) CheckMatch(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	otherUserID := c.Param("otherUserId")
	if otherUserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Other user ID is required")
	}

	isMatch, err := h.likeRepository.IsMatch(userID, otherUserID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"isMatch": isMatch})
}
