package services

import (
	"fmt"
	"strings"

	"divorce_intake_go/models"
)

// RegleJuridique is one entry of the static requirement table: the legal
// citation a document type must satisfy in a jurisdiction, and the keywords
// whose presence in the extracted text clears the check.
type RegleJuridique struct {
	Code     string
	Article  string
	MotsCles []string
	Exige    bool // document type is legally required for the procedure
}

// Citation returns the canonical citation string for the rule
func (r RegleJuridique) Citation() string {
	return fmt.Sprintf("%s art. %s", r.Code, r.Article)
}

// reglesJuridiques maps (pays, type_document) to its requirement. This is a
// fixed lookup table, not a retrieval system.
var reglesJuridiques = map[string]map[string]RegleJuridique{
	models.PaysFrance: {
		models.TypeActeMariage: {
			Code: "Code civil", Article: "229",
			MotsCles: []string{"mariage", "epoux", "officier"},
			Exige:    true,
		},
		models.TypePieceIdentite: {
			Code: "Code de procedure civile", Article: "54",
			MotsCles: []string{"nationalite", "naissance"},
			Exige:    true,
		},
		models.TypeJustificatifDomicile: {
			Code: "Code de procedure civile", Article: "1070",
			MotsCles: []string{"adresse", "domicile"},
			Exige:    true,
		},
		models.TypeAvisImposition: {
			Code: "Code civil", Article: "272",
			MotsCles: []string{"revenu", "fiscal"},
			Exige:    false,
		},
		models.TypeActeNaissanceEnfant: {
			Code: "Code civil", Article: "373-2-11",
			MotsCles: []string{"naissance", "parents"},
			Exige:    false,
		},
	},
	models.PaysBelgique: {
		models.TypeActeMariage: {
			Code: "Code civil belge", Article: "229",
			MotsCles: []string{"mariage", "epoux"},
			Exige:    true,
		},
		models.TypePieceIdentite: {
			Code: "Code judiciaire", Article: "1254",
			MotsCles: []string{"nationalite", "naissance"},
			Exige:    true,
		},
		models.TypeJustificatifDomicile: {
			Code: "Code judiciaire", Article: "1254",
			MotsCles: []string{"adresse", "domicile"},
			Exige:    true,
		},
	},
	models.PaysSuisse: {
		models.TypeActeMariage: {
			Code: "Code civil suisse", Article: "111",
			MotsCles: []string{"mariage", "epoux"},
			Exige:    true,
		},
		models.TypePieceIdentite: {
			Code: "Code de procedure civile suisse", Article: "290",
			MotsCles: []string{"nationalite", "naissance"},
			Exige:    true,
		},
		models.TypeBulletinSalaire: {
			Code: "Code civil suisse", Article: "125",
			MotsCles: []string{"salaire", "employeur"},
			Exige:    false,
		},
	},
	models.PaysLuxembourg: {
		models.TypeActeMariage: {
			Code: "Code civil luxembourgeois", Article: "229",
			MotsCles: []string{"mariage", "epoux"},
			Exige:    true,
		},
		models.TypePieceIdentite: {
			Code: "Nouveau code de procedure civile", Article: "1007-3",
			MotsCles: []string{"nationalite", "naissance"},
			Exige:    true,
		},
	},
}

// VerificationResult holds the outcome of the static rule check for one document
type VerificationResult struct {
	Exige   bool
	Valide  bool
	Alertes []string
}

// VerifierDocument runs the keyword-presence check against the requirement
// table. An unknown (pays, type) pair is valid with no requirement. The check
// is a case-insensitive substring match; absence of every keyword raises an
// alert carrying the required citation.
func VerifierDocument(pays, typeDocument, texteExtrait string) VerificationResult {
	regles, ok := reglesJuridiques[pays]
	if !ok {
		return VerificationResult{Valide: true}
	}
	regle, ok := regles[typeDocument]
	if !ok {
		return VerificationResult{Valide: true}
	}

	result := VerificationResult{Exige: regle.Exige}

	texte := strings.ToLower(texteExtrait)
	for _, mot := range regle.MotsCles {
		if strings.Contains(texte, strings.ToLower(mot)) {
			result.Valide = true
			return result
		}
	}

	result.Alertes = append(result.Alertes, fmt.Sprintf(
		"Mentions attendues introuvables pour %s (%s)", typeDocument, regle.Citation()))
	return result
}

// RegleApplicable exposes the table entry for a (pays, type) pair, used by
// the analysis prompt to cite the applicable articles
func RegleApplicable(pays, typeDocument string) (RegleJuridique, bool) {
	regles, ok := reglesJuridiques[pays]
	if !ok {
		return RegleJuridique{}, false
	}
	regle, ok := regles[typeDocument]
	return regle, ok
}
