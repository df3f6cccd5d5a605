package handlers

import (
	"net/http"

	"divorce_intake_go/db"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
)

// CronPurgeHandler runs the retention job. Guarded by the cron bearer token.
func CronPurgeHandler(c echo.Context) error {
	report, err := services.PurgeExpiredDossiers(c.Request().Context(), db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Purge run failed")
	}
	return c.JSON(http.StatusOK, report)
}
