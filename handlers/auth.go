package handlers

import (
	"net/http"

	"divorce_intake_go/db"
	"divorce_intake_go/middleware"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginHandler authenticates a lawyer and opens a session
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	avocat, err := services.AuthenticateAvocat(db.DB, req.Email, req.Password)
	if err != nil {
		// Same response for bad password and inactive account
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	session, err := services.CreateSession(db.DB, avocat.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	cfg := getConfig(c)
	middleware.SetSessionCookie(c, session.Token, cfg.Environment == "production")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":     avocat.ID,
		"nom":    avocat.Nom,
		"prenom": avocat.Prenom,
		"email":  avocat.Email,
	})
}

// LogoutHandler closes the current session
func LogoutHandler(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil {
		_ = services.DeleteSession(db.DB, cookie.Value)
	}
	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// GetCurrentAvocatHandler returns the authenticated lawyer's profile
func GetCurrentAvocatHandler(c echo.Context) error {
	avocat := middleware.GetCurrentAvocat(c)
	if avocat == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return c.JSON(http.StatusOK, avocat)
}
