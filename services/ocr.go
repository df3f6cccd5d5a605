package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"divorce_intake_go/models"
)

// OCRResult is the parsed output of a vision-model extraction call
type OCRResult struct {
	Texte     string            `json:"texte"`
	Champs    map[string]string `json:"champs"`
	Qualite   string            `json:"qualite"`
	Confiance float64           `json:"confiance"`
	Alertes   []string          `json:"alertes"`
}

// ocrPrompts maps a document type to the extraction instructions sent to the
// vision model. Every prompt demands the same JSON envelope so parsing stays uniform.
var ocrPrompts = map[string]string{
	models.TypeActeMariage: `Ce document est un acte de mariage. Extrais les noms complets des deux epoux, ` +
		`la date et le lieu du mariage, et la mention d'un eventuel contrat de mariage.`,
	models.TypePieceIdentite: `Ce document est une piece d'identite. Extrais le nom, le prenom, ` +
		`la date de naissance, la nationalite et le numero du document.`,
	models.TypeJustificatifDomicile: `Ce document est un justificatif de domicile. Extrais le nom du titulaire, ` +
		`l'adresse complete et la date d'emission.`,
	models.TypeBulletinSalaire: `Ce document est un bulletin de salaire. Extrais le nom du salarie, l'employeur, ` +
		`la periode, le salaire brut et le salaire net.`,
	models.TypeAvisImposition: `Ce document est un avis d'imposition. Extrais le ou les declarants, ` +
		`l'annee fiscale, le revenu fiscal de reference et le nombre de parts.`,
	models.TypeActeNaissanceEnfant: `Ce document est un acte de naissance. Extrais le nom de l'enfant, ` +
		`sa date et son lieu de naissance, et les noms des parents.`,
	models.TypeAutre: `Ce document fait partie d'un dossier de divorce. Identifie sa nature et extrais ` +
		`les informations principales (noms, dates, montants).`,
}

const ocrEnvelope = `

Reponds UNIQUEMENT avec un objet JSON de la forme:
{"texte": "texte integral du document", "champs": {"cle": "valeur"}, "qualite": "BONNE|MOYENNE|FAIBLE|ILLISIBLE", "confiance": 0.0, "alertes": ["..."]}
Le champ "confiance" est compris entre 0 et 1. Ajoute une alerte pour toute information illisible ou manquante.`

// ExtractDocument downloads a stored object and runs the vision model over it.
// One attempt, no retry; a malformed JSON response is an error for the caller
// to fold into the document's alerts.
func ExtractDocument(ctx context.Context, cheminStockage, typeDocument string) (*OCRResult, error) {
	if LLM == nil {
		return nil, fmt.Errorf("llm client not configured")
	}
	if Storage == nil {
		return nil, fmt.Errorf("storage not configured")
	}

	reader, contentType, err := Storage.Get(ctx, cheminStockage)
	if err != nil {
		return nil, fmt.Errorf("failed to download document: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	prompt, ok := ocrPrompts[typeDocument]
	if !ok {
		prompt = ocrPrompts[models.TypeAutre]
	}

	raw, err := LLM.GenerateVision(ctx, prompt+ocrEnvelope, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("ocr call failed: %w", err)
	}

	var result OCRResult
	if err := json.Unmarshal([]byte(StripJSONFences(raw)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse ocr response: %w", err)
	}

	return &result, nil
}

// IsOCRSupported reports whether a content type goes through OCR (images and PDFs)
func IsOCRSupported(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || mimeType == "application/pdf"
}

// filename keywords for auto-detection, checked in order
var typeDetectionKeywords = []struct {
	keywords []string
	docType  string
}{
	{[]string{"mariage", "marriage"}, models.TypeActeMariage},
	{[]string{"identite", "passeport", "passport", "cni", "carte_id"}, models.TypePieceIdentite},
	{[]string{"domicile", "facture", "edf", "loyer"}, models.TypeJustificatifDomicile},
	{[]string{"salaire", "paie", "paye", "payslip"}, models.TypeBulletinSalaire},
	{[]string{"imposition", "impot", "impots", "fiscal"}, models.TypeAvisImposition},
	{[]string{"naissance"}, models.TypeActeNaissanceEnfant},
}

// DetectDocumentType guesses a document type from its filename. Used as a
// fallback when the caller sends no type or an unrecognized one; never fails,
// worst case returns AUTRE.
func DetectDocumentType(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	for _, entry := range typeDetectionKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(name, kw) {
				return entry.docType
			}
		}
	}
	return models.TypeAutre
}

// StripJSONFences removes markdown code fences the model sometimes wraps
// around its JSON body
func StripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
