package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"divorce_intake_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func postIntake(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	_, c, rec := setupEcho(http.MethodPost, "/api/client/dossier", strings.NewReader(body))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return c, rec
}

func TestCreateDossierHandler(t *testing.T) {
	testDB := setupTestDB(t)
	createTestAvocat(t, testDB, "claire@cabinet.fr", true)

	body := `{
		"nom": "Martin", "prenom": "Sophie", "email": "sophie@example.com",
		"pays": "FR", "type_procedure": "CONSENTEMENT_MUTUEL",
		"date_mariage": "2015-06-20", "nombre_enfants": 2
	}`
	c, rec := postIntake(t, body)

	assert.NoError(t, CreateDossierHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatutEnAttentePaiement, resp["statut"])
	assert.Equal(t, float64(29900), resp["montant_cents"])
	assert.Equal(t, "EUR", resp["devise"])
	assert.Regexp(t, `^DIV-\d{4}-\d{6}$`, resp["reference"])

	var dossier models.Dossier
	assert.NoError(t, testDB.First(&dossier, "id = ?", resp["id"]).Error)
	assert.Equal(t, 2, dossier.NombreEnfants)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), dossier.DatePurgePrevue, 10*time.Second)
}

func TestCreateDossierHandlerUpsertsClient(t *testing.T) {
	testDB := setupTestDB(t)
	createTestAvocat(t, testDB, "claire@cabinet.fr", true)

	body := `{"nom": "Martin", "email": "sophie@example.com", "pays": "FR", "type_procedure": "CONSENTEMENT_MUTUEL"}`

	c, rec := postIntake(t, body)
	assert.NoError(t, CreateDossierHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Second submission with the same email reuses the client
	c, rec = postIntake(t, body)
	assert.NoError(t, CreateDossierHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var clients int64
	testDB.Model(&models.Client{}).Count(&clients)
	assert.Equal(t, int64(1), clients)

	var dossiers int64
	testDB.Model(&models.Dossier{}).Count(&dossiers)
	assert.Equal(t, int64(2), dossiers)
}

func TestCreateDossierHandlerRejectsBadInput(t *testing.T) {
	testDB := setupTestDB(t)
	createTestAvocat(t, testDB, "claire@cabinet.fr", true)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"nom": "Martin", "pays": "FR", "type_procedure": "CONSENTEMENT_MUTUEL"}`},
		{"unknown country", `{"nom": "Martin", "email": "a@b.fr", "pays": "US", "type_procedure": "CONSENTEMENT_MUTUEL"}`},
		{"unknown procedure", `{"nom": "Martin", "email": "a@b.fr", "pays": "FR", "type_procedure": "AUTRE_CHOSE"}`},
		{"bad date", `{"nom": "Martin", "email": "a@b.fr", "pays": "FR", "type_procedure": "CONSENTEMENT_MUTUEL", "date_mariage": "20/06/2015"}`},
	}
	for _, tc := range cases {
		c, _ := postIntake(t, tc.body)
		err := CreateDossierHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok, tc.name)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code, tc.name)
	}
}

func TestGetDossiersHandlerScopedToAvocat(t *testing.T) {
	testDB := setupTestDB(t)
	mine := createTestAvocat(t, testDB, "claire@cabinet.fr", true)
	other := createTestAvocat(t, testDB, "paul@cabinet.be", true)

	createTestDossier(t, testDB, mine)
	createTestDossier(t, testDB, mine)
	createTestDossier(t, testDB, other)

	_, c, rec := setupEcho(http.MethodGet, "/api/dossiers", nil)
	setCurrentAvocat(c, mine)

	assert.NoError(t, GetDossiersHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Dossiers []models.Dossier `json:"dossiers"`
		Total    int64            `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Dossiers, 2)
	for _, d := range resp.Dossiers {
		assert.Equal(t, mine.ID, d.AvocatID)
	}
}

func TestGetDossiersHandlerStatutFilter(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)

	paid := createTestDossier(t, testDB, avocat)
	testDB.Model(paid).Update("statut", models.StatutPaye)
	createTestDossier(t, testDB, avocat)

	_, c, rec := setupEcho(http.MethodGet, "/api/dossiers?statut=PAYE", nil)
	setCurrentAvocat(c, avocat)

	assert.NoError(t, GetDossiersHandler(c))

	var resp struct {
		Total int64 `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)

	// Unknown status value is a 400, not an empty list
	_, c, _ = setupEcho(http.MethodGet, "/api/dossiers?statut=INCONNU", nil)
	setCurrentAvocat(c, avocat)
	err := GetDossiersHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetDossierHandler(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)
	other := createTestAvocat(t, testDB, "paul@cabinet.be", true)
	dossier := createTestDossier(t, testDB, avocat)

	_, c, rec := setupEcho(http.MethodGet, "/api/dossiers/"+dossier.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(dossier.ID)
	setCurrentAvocat(c, avocat)

	assert.NoError(t, GetDossierHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another lawyer cannot read it
	_, c, _ = setupEcho(http.MethodGet, "/api/dossiers/"+dossier.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(dossier.ID)
	setCurrentAvocat(c, other)

	err := GetDossierHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestValiderDossierHandler(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)
	dossier := createTestDossier(t, testDB, avocat)

	// Without a synthesis there is nothing to validate
	_, c, _ := setupEcho(http.MethodPost, "/api/dossier/"+dossier.ID+"/valider", nil)
	c.SetParamNames("id")
	c.SetParamValues(dossier.ID)
	setCurrentAvocat(c, avocat)

	err := ValiderDossierHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	// With a synthesis the dossier is validated
	testDB.Model(dossier).Updates(map[string]interface{}{
		"synthese_html": "<p>Synthese</p>",
		"statut":        models.StatutAnalyseTerminee,
	})

	_, c, rec := setupEcho(http.MethodPost, "/api/dossier/"+dossier.ID+"/valider", nil)
	c.SetParamNames("id")
	c.SetParamValues(dossier.ID)
	setCurrentAvocat(c, avocat)

	assert.NoError(t, ValiderDossierHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Dossier
	assert.NoError(t, testDB.First(&reloaded, "id = ?", dossier.ID).Error)
	assert.Equal(t, models.StatutValide, reloaded.Statut)
	assert.NotNil(t, reloaded.ValideAt)
}

func TestExportDossierPDFHandlerRequiresSynthese(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)
	dossier := createTestDossier(t, testDB, avocat)

	_, c, _ := setupEcho(http.MethodGet, "/api/dossier/"+dossier.ID+"/export-pdf", nil)
	c.SetParamNames("id")
	c.SetParamValues(dossier.ID)
	setCurrentAvocat(c, avocat)

	err := ExportDossierPDFHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestExportDossiersExcelHandler(t *testing.T) {
	testDB := setupTestDB(t)
	avocat := createTestAvocat(t, testDB, "claire@cabinet.fr", true)
	createTestDossier(t, testDB, avocat)

	_, c, rec := setupEcho(http.MethodGet, "/api/dossiers/export-excel", nil)
	setCurrentAvocat(c, avocat)

	assert.NoError(t, ExportDossiersExcelHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "dossiers.xlsx")
	assert.NotZero(t, rec.Body.Len())
}
