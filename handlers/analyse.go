package handlers

import (
	"log"
	"net/http"

	"divorce_intake_go/db"
	"divorce_intake_go/models"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
)

type analyseRequest struct {
	DossierID string `json:"dossier_id" form:"dossier_id" validate:"required"`
}

// AnalyserDossierHandler runs the AI analysis of a paid dossier and stores
// the synthesis. One LLM call, no retry.
func AnalyserDossierHandler(c echo.Context) error {
	var req analyseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dossier_id is required")
	}

	var dossier models.Dossier
	if err := db.DB.First(&dossier, "id = ?", req.DossierID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Dossier not found")
	}

	if !dossier.Paye {
		return echo.NewHTTPError(http.StatusBadRequest, "Dossier is not paid")
	}

	if err := services.AnalyserDossier(c.Request().Context(), db.DB, dossier.ID); err != nil {
		log.Printf("Analysis failed for dossier %s: %v", dossier.Reference, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Analysis failed")
	}

	// Reload for the response and the notification
	if err := db.DB.Preload("Client").First(&dossier, "id = ?", dossier.ID).Error; err == nil {
		cfg := getConfig(c)
		if err := services.SendEmailAnalysePrete(cfg, &dossier); err != nil {
			log.Printf("Failed to send analysis email for %s: %v", dossier.Reference, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":     dossier.ID,
		"statut": models.StatutAnalyseTerminee,
	})
}
