package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"divorce_intake_go/db"
	"divorce_intake_go/middleware"
	"divorce_intake_go/models"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

type createDossierRequest struct {
	Nom           string `json:"nom" form:"nom" validate:"required"`
	Prenom        string `json:"prenom" form:"prenom"`
	Email         string `json:"email" form:"email" validate:"required,email"`
	Telephone     string `json:"telephone" form:"telephone"`
	Pays          string `json:"pays" form:"pays" validate:"required"`
	TypeProcedure string `json:"type_procedure" form:"type_procedure" validate:"required"`
	DateMariage   string `json:"date_mariage" form:"date_mariage"` // YYYY-MM-DD
	NombreEnfants int    `json:"nombre_enfants" form:"nombre_enfants" validate:"gte=0"`
	LienToken     string `json:"lien_token" form:"lien_token"`
}

// CreateDossierHandler handles the public intake form: upserts the client by
// email and opens a new dossier awaiting payment
func CreateDossierHandler(c echo.Context) error {
	var req createDossierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing or invalid fields")
	}
	if !models.IsValidPays(req.Pays) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unsupported jurisdiction")
	}
	if !models.IsValidTypeProcedure(req.TypeProcedure) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unsupported procedure type")
	}

	var dateMariage *time.Time
	if req.DateMariage != "" {
		parsed, err := time.Parse("2006-01-02", req.DateMariage)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid marriage date, expected YYYY-MM-DD")
		}
		dateMariage = &parsed
	}

	client, err := services.UpsertClientByEmail(db.DB, services.ClientInput{
		Nom:       req.Nom,
		Prenom:    req.Prenom,
		Email:     req.Email,
		Telephone: req.Telephone,
		Pays:      req.Pays,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register client")
	}

	cfg := getConfig(c)
	dossier, err := services.CreateDossier(db.DB, client, services.DossierInput{
		Pays:          req.Pays,
		TypeProcedure: req.TypeProcedure,
		DateMariage:   dateMariage,
		NombreEnfants: req.NombreEnfants,
		LienToken:     req.LienToken,
	}, cfg.RetentionDays)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create dossier")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":            dossier.ID,
		"reference":     dossier.Reference,
		"statut":        dossier.Statut,
		"montant_cents": dossier.MontantCents,
		"devise":        dossier.Devise,
	})
}

// GetDossiersHandler lists the authenticated lawyer's dossiers
func GetDossiersHandler(c echo.Context) error {
	avocat := middleware.GetCurrentAvocat(c)

	query := db.DB.Where("avocat_id = ?", avocat.ID)
	if pays := c.QueryParam("pays"); pays != "" {
		query = query.Where("pays = ?", pays)
	}
	if statut := c.QueryParam("statut"); statut != "" {
		if !models.IsValidStatut(statut) {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown status")
		}
		query = query.Where("statut = ?", statut)
	}

	var total int64
	if err := query.Model(&models.Dossier{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count dossiers")
	}

	page := 1
	limit := 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	var dossiers []models.Dossier
	if err := query.Preload("Client").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&dossiers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch dossiers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"dossiers": dossiers,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetDossierHandler returns one dossier with its documents
func GetDossierHandler(c echo.Context) error {
	avocat := middleware.GetCurrentAvocat(c)

	var dossier models.Dossier
	err := db.DB.Preload("Client").Preload("Documents").
		Where("id = ? AND avocat_id = ?", c.Param("id"), avocat.ID).
		First(&dossier).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Dossier not found")
	}

	return c.JSON(http.StatusOK, dossier)
}

// ValiderDossierHandler marks a completed analysis as reviewed by the lawyer.
// The only guard is the presence of a synthesis; the status itself is written
// unconditionally like every other transition.
func ValiderDossierHandler(c echo.Context) error {
	avocat := middleware.GetCurrentAvocat(c)

	var dossier models.Dossier
	err := db.DB.Where("id = ? AND avocat_id = ?", c.Param("id"), avocat.ID).First(&dossier).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Dossier not found")
	}

	if !dossier.AnalyseDisponible() {
		return echo.NewHTTPError(http.StatusBadRequest, "No analysis to validate")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"statut":    models.StatutValide,
		"valide_at": now,
	}
	if err := db.DB.Model(&dossier).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to validate dossier")
	}

	dossier.Statut = models.StatutValide
	dossier.ValideAt = &now
	return c.JSON(http.StatusOK, dossier)
}

// ExportDossierPDFHandler renders a dossier's synthesis to PDF
func ExportDossierPDFHandler(c echo.Context) error {
	avocat := middleware.GetCurrentAvocat(c)

	var dossier models.Dossier
	err := db.DB.Where("id = ? AND avocat_id = ?", c.Param("id"), avocat.ID).First(&dossier).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Dossier not found")
	}
	if !dossier.AnalyseDisponible() {
		return echo.NewHTTPError(http.StatusBadRequest, "No synthesis to export")
	}

	pdfBytes, err := services.GeneratePDF(services.BuildSyntheseHTML(&dossier), services.DefaultPDFOptions())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "PDF generation failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="synthese_%s.pdf"`, dossier.Reference))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

// ExportDossiersExcelHandler exports the lawyer's dossiers as a workbook
func ExportDossiersExcelHandler(c echo.Context) error {
	avocat := middleware.GetCurrentAvocat(c)

	var dossiers []models.Dossier
	if err := db.DB.Preload("Client").
		Where("avocat_id = ?", avocat.ID).
		Order("created_at DESC").
		Find(&dossiers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch dossiers")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Dossiers"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Reference", "Client", "Pays", "Procedure", "Statut", "Paye", "Montant", "Cree le"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, d := range dossiers {
		values := []interface{}{
			d.Reference,
			d.Client.Nom + " " + d.Client.Prenom,
			d.Pays,
			d.TypeProcedure,
			d.Statut,
			d.Paye,
			fmt.Sprintf("%.2f %s", float64(d.MontantCents)/100, d.Devise),
			d.CreatedAt.Format("02/01/2006"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build workbook")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="dossiers.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
