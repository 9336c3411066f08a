package validators

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate(req) on bound request structs.
type CustomValidator struct {
	validate *validator.Validate
}

// NewValidator creates the validator used as echo's e.Validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

// Validate checks struct tags and surfaces failures as 400 errors.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
