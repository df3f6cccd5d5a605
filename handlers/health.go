package handlers

import (
	"net/http"

	"divorce_intake_go/db"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports service health: database reachability and whether a
// storage backend is configured
func HealthHandler(c echo.Context) error {
	status := http.StatusOK
	dbStatus := "ok"

	sqlDB, err := db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	storageConfigured := services.Storage != nil && services.Storage.IsConfigured()

	return c.JSON(status, map[string]interface{}{
		"database": dbStatus,
		"storage":  storageConfigured,
	})
}
