package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireCronSecret guards the scheduled endpoints behind a bearer token.
// With no secret configured the endpoints are closed, not open.
func RequireCronSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Cron endpoint not configured")
			}

			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Bearer token required")
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			return next(c)
		}
	}
}
