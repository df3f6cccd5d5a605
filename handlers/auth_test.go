package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"divorce_intake_go/db"
	"divorce_intake_go/middleware"
	"divorce_intake_go/models"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestLoginHandlerSuccess(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)

	body := `{"email": "claire@cabinet.fr", "password": "SecretPass123!"}`
	_, c, rec := setupEcho(http.MethodPost, "/login", strings.NewReader(body))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	err := LoginHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, avocat.Email, resp["email"])

	// Session cookie is set and backed by a DB row
	cookies := rec.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, ck := range cookies {
		if ck.Name == middleware.SessionCookieName {
			sessionCookie = ck
		}
	}
	assert.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	session, err := services.ValidateSession(db.DB, sessionCookie.Value)
	assert.NoError(t, err)
	assert.Equal(t, avocat.ID, session.AvocatID)
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	testDB := setupTestDB(t)
	createTestAvocat(t, testDB, "claire@cabinet.fr", true)

	body := `{"email": "claire@cabinet.fr", "password": "WrongPass"}`
	_, c, _ := setupEcho(http.MethodPost, "/login", strings.NewReader(body))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	err := LoginHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestLoginHandlerInactiveAccount(t *testing.T) {
	testDB := setupTestDB(t)
	createTestAvocat(t, testDB, "inactif@cabinet.fr", false)

	// Correct password, disabled account: same 401 as a wrong password
	body := `{"email": "inactif@cabinet.fr", "password": "SecretPass123!"}`
	_, c, _ := setupEcho(http.MethodPost, "/login", strings.NewReader(body))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	err := LoginHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "Invalid credentials", httpErr.Message)
}

func TestLoginHandlerMissingFields(t *testing.T) {
	setupTestDB(t)

	body := `{"email": "not-an-email"}`
	_, c, _ := setupEcho(http.MethodPost, "/login", strings.NewReader(body))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	err := LoginHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestLogoutHandler(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)

	session, err := services.CreateSession(testDB, avocat.ID, "127.0.0.1", "TestAgent")
	assert.NoError(t, err)

	_, c, rec := setupEcho(http.MethodPost, "/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})

	assert.NoError(t, LogoutHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Session row is gone
	var count int64
	testDB.Model(&models.Session{}).Where("token = ?", session.Token).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetCurrentAvocatHandler(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)

	_, c, rec := setupEcho(http.MethodGet, "/api/me", nil)
	setCurrentAvocat(c, avocat)

	assert.NoError(t, GetCurrentAvocatHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.Avocat
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, avocat.Email, resp.Email)
	assert.Empty(t, resp.Password)
}
