package handlers

import (
	"divorce_intake_go/config"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo's Validator interface
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds the request validator registered on the echo instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// getConfig returns the application config stored on the request context
func getConfig(c echo.Context) *config.Config {
	cfg, ok := c.Get("config").(*config.Config)
	if !ok {
		return &config.Config{}
	}
	return cfg
}
