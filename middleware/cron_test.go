package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func callCronEndpoint(secret, authHeader string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/purge", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireCronSecret(secret)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return rec, handler(c)
}

func TestRequireCronSecret(t *testing.T) {
	rec, err := callCronEndpoint("topsecret", "Bearer topsecret")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireCronSecretRejectsBadToken(t *testing.T) {
	_, err := callCronEndpoint("topsecret", "Bearer wrong")
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireCronSecretRejectsMissingHeader(t *testing.T) {
	_, err := callCronEndpoint("topsecret", "")
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireCronSecretClosedWhenUnconfigured(t *testing.T) {
	// No secret means the endpoint is closed, not open
	_, err := callCronEndpoint("", "Bearer anything")
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}
