package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/apperrors"
	"github.com/anikraj/bumble-clone/backend/internal/auth"
	"github.com/anikraj/bumble-clone/backend/internal/middleware"
	"github.com/anikraj/bumble-clone/backend/internal/models"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
)

// validEmailDomains is the whitelist accepted at signup. Test addresses and
// example.com are deliberately rejected.
var validEmailDomains = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"icloud.com",
	"aol.com",
	"protonmail.com",
}

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
	}
}

// RegisterAuthRoutes registers the unauthenticated auth routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
}

// RegisterSessionRoutes registers auth routes that require a valid session
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/logout", h.Logout)
}

// Signup registers a new user and returns a session token with the created
// profile.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if !emailDomainAllowed(req.Email) {
		return apperrors.HTTP(apperrors.Domain(
			"Please use a valid email domain. Test emails and example.com are not accepted."))
	}

	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User with this email already registered")
	} else if err != gorm.ErrRecordNotFound {
		return apperrors.HTTP(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hashedPassword),
		Age:          req.Age,
		Location:     req.Location,
		IsOnline:     true,
		LastActive:   time.Now(),
	}
	if err := h.userRepository.CreateUser(user, nil); err != nil {
		return apperrors.HTTP(err)
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user":  models.UserWithInterests{User: *user, Interests: []string{}},
	})
}

// Login authenticates with email and password and returns a session token
// with the profile.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := h.userRepository.SetOnline(user.ID, true); err != nil {
		return apperrors.HTTP(err)
	}

	profile, err := h.userRepository.GetUserByID(user.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  profile,
	})
}

// Logout marks the user offline. The session token itself stays valid until
// it expires; there is no server-side session store to revoke.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := c.Get(middleware.UserIDKey).(string)

	if err := h.userRepository.SetOnline(userID, false); err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

func emailDomainAllowed(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range validEmailDomains {
		if domain == d {
			return true
		}
	}
	return false
}
