package handlers

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"divorce_intake_go/config"
	"divorce_intake_go/db"
	"divorce_intake_go/models"
	"divorce_intake_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	// Initialize Storage for tests if not already set
	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

	err = testDB.AutoMigrate(
		&models.Avocat{},
		&models.Client{},
		&models.Dossier{},
		&models.Document{},
		&models.TexteLoi{},
		&models.Lien{},
		&models.Session{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:         "test",
		RetentionDays:       7,
		StripeWebhookSecret: "whsec_test",
		EmailTestMode:       true,
	})

	return e, c, rec
}

func createTestAvocat(t *testing.T, testDB *gorm.DB, email string, actif bool) *models.Avocat {
	hash, err := services.HashPassword("SecretPass123!")
	assert.NoError(t, err)

	avocat := &models.Avocat{
		Nom:      "Durand",
		Prenom:   "Claire",
		Email:    email,
		Password: hash,
		Barreau:  "Barreau de Paris",
		Actif:    actif,
	}
	assert.NoError(t, testDB.Create(avocat).Error)
	return avocat
}

func createTestDossier(t *testing.T, testDB *gorm.DB, avocat *models.Avocat) *models.Dossier {
	suffix := uuid.New().String()[:8]
	client := &models.Client{
		Nom:   "Martin",
		Email: "client+" + suffix + "@example.com",
		Pays:  models.PaysFrance,
	}
	assert.NoError(t, testDB.Create(client).Error)

	dossier := &models.Dossier{
		Reference:       "DIV-2026-" + suffix,
		Pays:            models.PaysFrance,
		TypeProcedure:   models.ProcedureConsentementMutuel,
		MontantCents:    29900,
		Devise:          "EUR",
		Statut:          models.StatutEnAttentePaiement,
		DatePurgePrevue: time.Now().Add(7 * 24 * time.Hour),
		AvocatID:        avocat.ID,
		ClientID:        client.ID,
	}
	assert.NoError(t, testDB.Create(dossier).Error)
	return dossier
}

func setCurrentAvocat(c echo.Context, avocat *models.Avocat) {
	c.Set("avocat", avocat)
}

func stringToPtr(s string) *string {
	return &s
}
