package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"divorce_intake_go/db"
	"divorce_intake_go/middleware"
	"divorce_intake_go/models"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

const maxUploadSize = 15 * 1024 * 1024 // 15MB

// UploadDocumentHandler receives one piece for a dossier: stores the blob,
// runs OCR when the content type supports it, runs the legal verification,
// and records the document. OCR and verification failures are folded into
// the document's alerts instead of failing the request.
func UploadDocumentHandler(c echo.Context) error {
	dossierID := c.FormValue("dossier_id")
	if dossierID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "dossier_id is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "File is required")
	}
	if file.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "File exceeds the 15MB limit")
	}

	var dossier models.Dossier
	if err := db.DB.First(&dossier, "id = ?", dossierID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Dossier not found")
	}

	pays := c.FormValue("pays")
	if pays == "" {
		pays = dossier.Pays
	}

	// Unknown or missing type falls back to filename detection, never fails
	typeDocument := c.FormValue("type_document")
	if !models.IsValidTypeDocument(typeDocument) {
		typeDocument = services.DetectDocumentType(file.Filename)
	}

	key := services.GenerateDocumentKey(dossier.ID, file.Filename)
	uploadResult, err := services.Storage.Upload(context.Background(), file, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Upload failed")
	}

	var alertes []string
	texteExtrait := ""
	var champsExtraits datatypes.JSON
	qualite := ""
	confiance := 0.0

	if services.IsOCRSupported(uploadResult.MimeType) {
		ocrResult, err := services.ExtractDocument(c.Request().Context(), key, typeDocument)
		if err != nil {
			log.Printf("OCR failed for %s: %v", key, err)
			alertes = append(alertes, "Extraction automatique impossible, verification manuelle requise")
		} else {
			texteExtrait = ocrResult.Texte
			qualite = ocrResult.Qualite
			confiance = ocrResult.Confiance
			alertes = append(alertes, ocrResult.Alertes...)
			if len(ocrResult.Champs) > 0 {
				if encoded, err := json.Marshal(ocrResult.Champs); err == nil {
					champsExtraits = datatypes.JSON(encoded)
				}
			}
		}
	} else {
		alertes = append(alertes, "Format non pris en charge par l'extraction automatique")
	}

	verification := services.VerifierDocument(pays, typeDocument, texteExtrait)
	alertes = append(alertes, verification.Alertes...)

	var alertesJSON datatypes.JSON
	if encoded, err := json.Marshal(alertes); err == nil {
		alertesJSON = datatypes.JSON(encoded)
	}

	cfg := getConfig(c)
	document := models.Document{
		DossierID:       dossier.ID,
		TypeDocument:    typeDocument,
		CheminStockage:  key,
		NomOriginal:     file.Filename,
		Taille:          uploadResult.FileSize,
		MimeType:        uploadResult.MimeType,
		TexteExtrait:    texteExtrait,
		ChampsExtraits:  champsExtraits,
		Qualite:         qualite,
		Confiance:       confiance,
		ExigeParLaLoi:   verification.Exige,
		Valide:          verification.Valide,
		Alertes:         alertesJSON,
		DatePurgePrevue: time.Now().Add(time.Duration(cfg.RetentionDays) * 24 * time.Hour),
	}

	if err := db.DB.Create(&document).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save document record")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":            document.ID,
		"type_document": document.TypeDocument,
		"qualite":       document.Qualite,
		"confiance":     document.Confiance,
		"valide":        document.Valide,
		"alertes":       alertes,
	})
}

// DownloadDocumentHandler streams a stored document back to the lawyer
func DownloadDocumentHandler(c echo.Context) error {
	avocat := middleware.GetCurrentAvocat(c)

	var document models.Document
	err := db.DB.Joins("Dossier").
		Where("documents.id = ? AND Dossier.avocat_id = ?", c.Param("id"), avocat.ID).
		First(&document).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}
	if document.Purge {
		return echo.NewHTTPError(http.StatusNotFound, "Document has been purged")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), document.CheminStockage)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read document")
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+document.NomOriginal+`"`)
	return c.Stream(http.StatusOK, contentType, reader)
}
