package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anikraj/bumble-clone/backend/internal/auth"
	"github.com/anikraj/bumble-clone/backend/internal/repositories"
)

// UserIDKey is the echo context key under which the authenticated user's
// identifier is stored.
const UserIDKey = "userID"

// JWTAuthMiddleware verifies the Bearer token and stores the authenticated
// user's identifier in the request context.
func JWTAuthMiddleware(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// AdminMiddleware allows the request through only when the authenticated
// user's profile carries the admin flag. Role resolution is a data-backed
// check, not an implicit grant.
func AdminMiddleware(userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(UserIDKey).(string)
			if !ok || userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			user, err := userRepo.GetUserByID(userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if !user.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden - Admin access required")
			}

			return next(c)
		}
	}
}
