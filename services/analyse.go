package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"divorce_intake_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SourceJuridique is one legal source cited by the synthesis
type SourceJuridique struct {
	Code       string `json:"code"`
	Article    string `json:"article"`
	Pertinence string `json:"pertinence,omitempty"`
}

// AnalyseOutput is the parsed JSON body returned by the synthesis call
type AnalyseOutput struct {
	SyntheseHTML string            `json:"synthese_html"`
	PointsCles   []string          `json:"points_cles"`
	Sources      []SourceJuridique `json:"sources"`
}

var paysLibelles = map[string]string{
	models.PaysFrance:     "France",
	models.PaysBelgique:   "Belgique",
	models.PaysSuisse:     "Suisse",
	models.PaysLuxembourg: "Luxembourg",
}

// synthesis output may embed markup; only basic formatting survives
var synthesePolicy = bluemonday.UGCPolicy()

// AnalyserDossier runs the one-shot AI analysis of a dossier: concatenates
// the extracted texts of its non-purged documents, sends a single prompt to
// the LLM, and stores the parsed result on the dossier. The status is written
// unconditionally (EN_ANALYSE then ANALYSE_TERMINEE), matching the rest of
// the lifecycle.
func AnalyserDossier(ctx context.Context, db *gorm.DB, dossierID string) error {
	if LLM == nil {
		return fmt.Errorf("llm client not configured")
	}

	var dossier models.Dossier
	if err := db.Preload("Client").First(&dossier, "id = ?", dossierID).Error; err != nil {
		return fmt.Errorf("dossier not found: %w", err)
	}

	if err := db.Model(&dossier).Update("statut", models.StatutEnAnalyse).Error; err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	var documents []models.Document
	if err := db.Where("dossier_id = ? AND purge = ?", dossierID, false).
		Order("created_at ASC").Find(&documents).Error; err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	contexte := buildContexteDocuments(documents)
	if contexte == "" {
		return fmt.Errorf("no extracted text available for dossier %s", dossier.Reference)
	}

	var textes []models.TexteLoi
	if err := db.Where("pays = ?", dossier.Pays).Find(&textes).Error; err != nil {
		log.Printf("Failed to load legal texts for %s: %v", dossier.Pays, err)
	}

	prompt := buildPromptAnalyse(&dossier, contexte, textes)

	raw, err := LLM.GenerateText(ctx, prompt)
	if err != nil {
		return fmt.Errorf("analysis call failed: %w", err)
	}

	var output AnalyseOutput
	if err := json.Unmarshal([]byte(StripJSONFences(raw)), &output); err != nil {
		return fmt.Errorf("failed to parse analysis response: %w", err)
	}

	analyseJSON, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis: %w", err)
	}
	sourcesJSON, err := json.Marshal(output.Sources)
	if err != nil {
		return fmt.Errorf("failed to serialize sources: %w", err)
	}

	updates := map[string]interface{}{
		"analyse_ia":         datatypes.JSON(analyseJSON),
		"synthese_html":      synthesePolicy.Sanitize(output.SyntheseHTML),
		"sources_juridiques": datatypes.JSON(sourcesJSON),
		"statut":             models.StatutAnalyseTerminee,
	}
	if err := db.Model(&dossier).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}

	log.Printf("Analysis completed for dossier %s (%d documents, %d sources)",
		dossier.Reference, len(documents), len(output.Sources))
	return nil
}

func buildContexteDocuments(documents []models.Document) string {
	var sb strings.Builder
	for _, doc := range documents {
		if doc.TexteExtrait == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("--- Document: %s (%s) ---\n", doc.NomOriginal, doc.TypeDocument))
		sb.WriteString(doc.TexteExtrait)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func buildPromptAnalyse(dossier *models.Dossier, contexte string, textes []models.TexteLoi) string {
	pays := paysLibelles[dossier.Pays]
	if pays == "" {
		pays = dossier.Pays
	}

	var sb strings.Builder
	sb.WriteString("Tu es un assistant juridique specialise en droit du divorce.\n")
	sb.WriteString(fmt.Sprintf("Juridiction: %s. Procedure: %s. Nombre d'enfants: %d.",
		pays, dossier.TypeProcedure, dossier.NombreEnfants))
	if dossier.DateMariage != nil {
		sb.WriteString(fmt.Sprintf(" Date du mariage: %s.", dossier.DateMariage.Format("02/01/2006")))
	}
	sb.WriteString("\n\nTextes de loi applicables:\n")
	for _, t := range textes {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", t.Citation(), t.Contenu))
	}
	sb.WriteString("\nPieces du dossier:\n")
	sb.WriteString(contexte)
	sb.WriteString(`
Redige une synthese juridique du dossier a destination de l'avocat: situation des epoux,
pieces fournies et manquantes, regime applicable, points d'attention. Cite les articles.
Reponds UNIQUEMENT avec un objet JSON de la forme:
{"synthese_html": "<h2>...</h2><p>...</p>", "points_cles": ["..."], "sources": [{"code": "...", "article": "...", "pertinence": "..."}]}`)
	return sb.String()
}

// PurgeAnalyse clears every AI field of a dossier, used by the purge job
func PurgeAnalyse(db *gorm.DB, dossier *models.Dossier) error {
	now := time.Now()
	return db.Model(dossier).Updates(map[string]interface{}{
		"analyse_ia":         nil,
		"synthese_html":      "",
		"sources_juridiques": nil,
		"statut":             models.StatutPurge,
		"purge":              true,
		"purge_at":           now,
	}).Error
}
