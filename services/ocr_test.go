package services

import (
	"testing"

	"divorce_intake_go/models"

	"github.com/stretchr/testify/assert"
)

func TestDetectDocumentType(t *testing.T) {
	cases := map[string]string{
		"acte_mariage.pdf":            models.TypeActeMariage,
		"Passeport_scan.jpg":          models.TypePieceIdentite,
		"facture_electricite.pdf":     models.TypeJustificatifDomicile,
		"bulletin_salaire_mars.pdf":   models.TypeBulletinSalaire,
		"avis_imposition_2025.pdf":    models.TypeAvisImposition,
		"acte_naissance_enfant.pdf":   models.TypeActeNaissanceEnfant,
		"/uploads/photo_mariage.png":  models.TypeActeMariage,
		"document_inconnu.pdf":        models.TypeAutre,
		"":                            models.TypeAutre,
	}
	for filename, expected := range cases {
		assert.Equal(t, expected, DetectDocumentType(filename), filename)
	}
}

func TestIsOCRSupported(t *testing.T) {
	assert.True(t, IsOCRSupported("image/jpeg"))
	assert.True(t, IsOCRSupported("image/png"))
	assert.True(t, IsOCRSupported("application/pdf"))
	assert.False(t, IsOCRSupported("application/msword"))
	assert.False(t, IsOCRSupported("text/plain"))
}

func TestStripJSONFences(t *testing.T) {
	raw := "```json\n{\"texte\": \"ok\"}\n```"
	assert.Equal(t, `{"texte": "ok"}`, StripJSONFences(raw))

	raw = "```\n{\"texte\": \"ok\"}\n```"
	assert.Equal(t, `{"texte": "ok"}`, StripJSONFences(raw))

	// Already clean input passes through
	assert.Equal(t, `{"texte": "ok"}`, StripJSONFences(`{"texte": "ok"}`))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "acte_de_mariage.pdf", SanitizeFilename("acte de mariage.pdf"))
	assert.Equal(t, "pi_ce_d_identit_.jpg", SanitizeFilename("pièce d'identité.jpg"))
	assert.Equal(t, "simple-name_1.png", SanitizeFilename("simple-name_1.png"))
}

func TestGenerateDocumentKey(t *testing.T) {
	key := GenerateDocumentKey("abc-123", "acte de mariage.pdf")
	assert.Regexp(t, `^dossiers/abc-123/\d+_acte_de_mariage\.pdf$`, key)
}
