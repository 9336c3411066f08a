package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/apperrors"
	"github.com/anikraj/bumble-clone/backend/internal/middleware"
	"github.com/anikraj/bumble-clone/backend/internal/models"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
)

// UserHandler handles HTTP requests related to profiles
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers profile routes; the administrative listing is
// additionally gated by adminMW.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, adminMW echo.MiddlewareFunc) {
	g.GET("/me", h.GetCurrentUser)
	g.PUT("/me", h.UpdateProfile)
	g.GET("/nearby", h.GetNearbyUsers)
	g.GET("/:id", h.GetUser)
	g.GET("", h.GetAllUsers, adminMW)
	g.DELETE("/:id", h.DeleteUser, adminMW)
}

// GetCurrentUser retrieves the authenticated user's own profile
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUser retrieves another user's profile by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile merges the supplied fields into the authenticated user's
// profile. A supplied interest list fully replaces the existing one.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	current, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return apperrors.HTTP(err)
	}

	user := current.User
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Age != 0 {
		user.Age = req.Age
	}
	if req.Location != "" {
		user.Location = req.Location
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Job != "" {
		user.Job = req.Job
	}
	if req.ImageURL != "" {
		user.ImageURL = req.ImageURL
	}

	if err := h.userRepository.UpdateUser(&user, req.Interests); err != nil {
		return apperrors.HTTP(err)
	}

	updated, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// GetNearbyUsers lists profiles whose location contains the given substring,
// excluding the caller.
func (h *UserHandler) GetNearbyUsers(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	location := c.QueryParam("location")
	if location == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Location is required")
	}

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = n
	}

	users, err := h.userRepository.GetNearbyUsers(userID, location, limit)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetAllUsers is the paginated administrative listing
func (h *UserHandler) GetAllUsers(c echo.Context) error {
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

	users, err := h.userRepository.GetUsers(limit, offset)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes a profile. Admin-only; profiles are never deleted as a
// side effect of anything else.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.userRepository.GetUserByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return apperrors.HTTP(err)
	}
	if err := h.userRepository.DeleteUser(id); err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
