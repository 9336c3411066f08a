package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports service liveness
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "UP",
		"timestamp": time.Now().Format(time.RFC3339),
		"message":   "Service is running correctly",
	})
}

// Root is the API landing response
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Welcome to the Bumble Clone API",
		"version": "1.0.0",
	})
}
