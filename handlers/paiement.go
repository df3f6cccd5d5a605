package handlers

import (
	"net/http"

	"divorce_intake_go/db"
	"divorce_intake_go/models"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
)

type createPaymentRequest struct {
	DossierID string `json:"dossier_id" form:"dossier_id" validate:"required"`
}

// CreatePaymentHandler opens a Stripe PaymentIntent for the dossier's fixed
// amount and returns the client secret for the hosted payment form
func CreatePaymentHandler(c echo.Context) error {
	var req createPaymentRequest
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

	if dossier.Paye {
		return echo.NewHTTPError(http.StatusBadRequest, "Dossier is already paid")
	}

	clientSecret, err := services.CreerPaiement(c.Request().Context(), db.DB, &dossier)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create payment")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"client_secret": clientSecret,
		"montant_cents": dossier.MontantCents,
		"devise":        dossier.Devise,
	})
}
