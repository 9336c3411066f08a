// Package apperrors defines the error taxonomy shared by repositories and
// handlers, and maps it onto HTTP responses. Keeping the mapping here keeps
// handlers free of status-code switch statements.
package apperrors

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var (
	// ErrNotFound covers both a genuinely absent entity and
	// access-denied-by-absence; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is authenticated but not entitled.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized means the caller carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken is returned by token verification for malformed,
	// tampered or expired tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// DomainError is a business-rule violation (e.g. an unsupported email
// domain). It maps to 400 and its message is safe to show to clients.
type DomainError struct {
	msg string
}

func (e *DomainError) Error() string { return e.msg }

// Domain creates a DomainError with the given client-facing message.
func Domain(msg string) error { return &DomainError{msg: msg} }

// HTTP converts repository and domain errors into echo HTTP errors.
// Unrecognized errors become 500s; the HTTP layer decides how much of
// them to show based on the environment.
func HTTP(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")

	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")

	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")

	case errors.As(err, &domainErr):
		return echo.NewHTTPError(http.StatusBadRequest, domainErr.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "Request timed out")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error").SetInternal(err)
	}
}
