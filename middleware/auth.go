package middleware

import (
	"net/http"

	"divorce_intake_go/db"
	"divorce_intake_go/models"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "divorce_intake_session"
	// ContextKeyAvocat is the context key for the authenticated lawyer
	ContextKeyAvocat = "avocat"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

// RequireAvocat is middleware that requires an authenticated lawyer session
func RequireAvocat() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			session, err := services.ValidateSession(db.DB, cookie.Value)
			if err != nil {
				ClearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
			}

			if !session.Avocat.Actif {
				ClearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "Account is inactive")
			}

			c.Set(ContextKeyAvocat, &session.Avocat)
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// GetCurrentAvocat returns the authenticated lawyer from the request context
func GetCurrentAvocat(c echo.Context) *models.Avocat {
	avocat, ok := c.Get(ContextKeyAvocat).(*models.Avocat)
	if !ok {
		return nil
	}
	return avocat
}

// SetSessionCookie attaches the session token to the response
func SetSessionCookie(c echo.Context, token string, secure bool) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(services.DefaultSessionDuration.Seconds()),
	}
	c.SetCookie(cookie)
}

// ClearSessionCookie invalidates the session cookie
func ClearSessionCookie(c echo.Context) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
	c.SetCookie(cookie)
}
