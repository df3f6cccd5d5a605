package handlers

import (
	"net/http"
	"time"

	"divorce_intake_go/db"
	"divorce_intake_go/middleware"
	"divorce_intake_go/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type createLienRequest struct {
	Libelle  string `json:"libelle" form:"libelle"`
	Domaine  string `json:"domaine" form:"domaine"`
	ExpireLe string `json:"expire_le" form:"expire_le"` // YYYY-MM-DD, optional
}

// CreateLienHandler creates a shareable referral link for the lawyer
func CreateLienHandler(c echo.Context) error {
	avocat := middleware.GetCurrentAvocat(c)

	var req createLienRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	lien := models.Lien{
		AvocatID: avocat.ID,
		Libelle:  req.Libelle,
		Actif:    true,
	}
	if req.Domaine != "" {
		lien.Domaine = &req.Domaine
	}
	if req.ExpireLe != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpireLe)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid expiry date, expected YYYY-MM-DD")
		}
		lien.ExpireLe = &parsed
	}

	if err := db.DB.Create(&lien).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create link")
	}

	return c.JSON(http.StatusCreated, lien)
}

// GetLiensHandler lists the lawyer's referral links
func GetLiensHandler(c echo.Context) error {
	avocat := middleware.GetCurrentAvocat(c)

	var liens []models.Lien
	if err := db.DB.Where("avocat_id = ?", avocat.ID).
		Order("created_at DESC").Find(&liens).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch links")
	}

	return c.JSON(http.StatusOK, liens)
}

// ResolveLienHandler resolves a public referral token, counts the click, and
// returns the intake bootstrap data. Expired or inactive links are gone.
func ResolveLienHandler(c echo.Context) error {
	var lien models.Lien
	err := db.DB.Preload("Avocat").Where("token = ?", c.Param("token")).First(&lien).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown link")
	}

	if lien.EstExpire() {
		return echo.NewHTTPError(http.StatusGone, "Link has expired")
	}

	if err := db.DB.Model(&lien).UpdateColumn("clics", gorm.Expr("clics + 1")).Error; err == nil {
		lien.Clics++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":   lien.Token,
		"libelle": lien.Libelle,
		"domaine": lien.Domaine,
		"avocat": map[string]string{
			"nom":     lien.Avocat.Nom,
			"prenom":  lien.Avocat.Prenom,
			"barreau": lien.Avocat.Barreau,
		},
	})
}
