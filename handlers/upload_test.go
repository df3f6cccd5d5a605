package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"divorce_intake_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func buildUploadRequest(t *testing.T, dossierID, filename, contentType string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if dossierID != "" {
		assert.NoError(t, writer.WriteField("dossier_id", dossierID))
	}
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		assert.NoError(t, err)
		_, err = part.Write(content)
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	_, c, rec := setupEcho(http.MethodPost, "/api/upload", body)
	c.Request().Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return c, rec
}

func TestUploadDocumentHandlerMissingFields(t *testing.T) {
	setupTestDB(t)

	// No dossier_id
	c, _ := buildUploadRequest(t, "", "acte_mariage.pdf", "application/pdf", []byte("%PDF-1.4"))
	err := UploadDocumentHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	// No file
	c, _ = buildUploadRequest(t, "some-id", "", "", nil)
	err = UploadDocumentHandler(c)
	httpErr, ok = err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUploadDocumentHandlerUnknownDossier(t *testing.T) {
	setupTestDB(t)

	c, _ := buildUploadRequest(t, "does-not-exist", "acte_mariage.pdf", "application/pdf", []byte("%PDF-1.4"))
	err := UploadDocumentHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestUploadDocumentHandlerFoldsOCRFailureIntoAlertes(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)
	dossier := createTestDossier(t, testDB, avocat)

	// No LLM client is configured in tests, so extraction fails; the upload
	// must still succeed with an alert on the document.
	c, rec := buildUploadRequest(t, dossier.ID, "acte_mariage.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	assert.NoError(t, UploadDocumentHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var document models.Document
	assert.NoError(t, testDB.First(&document, "dossier_id = ?", dossier.ID).Error)
	assert.Equal(t, models.TypeActeMariage, document.TypeDocument)
	assert.False(t, document.Purge)

	var alertes []string
	assert.NoError(t, json.Unmarshal(document.Alertes, &alertes))
	assert.Contains(t, strings.Join(alertes, " "), "Extraction automatique impossible")
}

func TestUploadDocumentHandlerUnsupportedFormat(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)
	dossier := createTestDossier(t, testDB, avocat)

	c, rec := buildUploadRequest(t, dossier.ID, "notes.docx", "application/msword", []byte("doc"))
	assert.NoError(t, UploadDocumentHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var document models.Document
	assert.NoError(t, testDB.First(&document, "dossier_id = ?", dossier.ID).Error)

	var alertes []string
	assert.NoError(t, json.Unmarshal(document.Alertes, &alertes))
	assert.Contains(t, strings.Join(alertes, " "), "Format non pris en charge")
}

func TestUploadDocumentHandlerDetectsTypeFromFilename(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)
	dossier := createTestDossier(t, testDB, avocat)

	// Unrecognized type falls back to filename detection, never fails
	c, rec := buildUploadRequest(t, dossier.ID, "bulletin_salaire_mars.pdf", "application/pdf", []byte("%PDF-1.4"))
	assert.NoError(t, UploadDocumentHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var document models.Document
	assert.NoError(t, testDB.First(&document, "dossier_id = ?", dossier.ID).Error)
	assert.Equal(t, models.TypeBulletinSalaire, document.TypeDocument)
	assert.Contains(t, document.CheminStockage, "dossiers/"+dossier.ID+"/")
	assert.Contains(t, document.CheminStockage, "bulletin_salaire_mars.pdf")
}

func TestUploadDocumentHandlerRequiredDocumentAlert(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)
	dossier := createTestDossier(t, testDB, avocat)

	// Extraction fails, so the marriage certificate keywords are absent and
	// the static rule raises its citation alert
	c, rec := buildUploadRequest(t, dossier.ID, "acte_mariage.pdf", "application/pdf", []byte("%PDF-1.4"))
	assert.NoError(t, UploadDocumentHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var document models.Document
	assert.NoError(t, testDB.First(&document, "dossier_id = ?", dossier.ID).Error)
	assert.True(t, document.ExigeParLaLoi)
	assert.False(t, document.Valide)

	var alertes []string
	assert.NoError(t, json.Unmarshal(document.Alertes, &alertes))
	assert.Contains(t, strings.Join(alertes, " "), "Code civil art. 229")
}
