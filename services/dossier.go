package services

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"divorce_intake_go/models"

	"gorm.io/gorm"
)

// ClientInput carries the contact fields of an intake submission
type ClientInput struct {
	Nom       string
	Prenom    string
	Email     string
	Telephone string
	Pays      string
}

// DossierInput carries the case fields of an intake submission
type DossierInput struct {
	Pays          string
	TypeProcedure string
	DateMariage   *time.Time
	NombreEnfants int
	LienToken     string
}

// UpsertClientByEmail creates the client on first submission or refreshes the
// contact fields of the existing record. Idempotent by email.
func UpsertClientByEmail(db *gorm.DB, input ClientInput) (*models.Client, error) {
	var client models.Client
	err := db.Where("email = ?", input.Email).First(&client).Error
	if err == gorm.ErrRecordNotFound {
		client = models.Client{
			Nom:       input.Nom,
			Prenom:    input.Prenom,
			Email:     input.Email,
			Telephone: input.Telephone,
			Pays:      input.Pays,
		}
		if err := db.Create(&client).Error; err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		return &client, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}

	updates := map[string]interface{}{}
	if input.Nom != "" {
		updates["nom"] = input.Nom
	}
	if input.Prenom != "" {
		updates["prenom"] = input.Prenom
	}
	if input.Telephone != "" {
		updates["telephone"] = input.Telephone
	}
	if input.Pays != "" {
		updates["pays"] = input.Pays
	}
	if len(updates) > 0 {
		if err := db.Model(&client).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update client: %w", err)
		}
	}
	return &client, nil
}

// GenerateReference produces a unique dossier reference of the form
// DIV-YYYY-NNNNNN, retrying on the unlikely collision
func GenerateReference(db *gorm.DB) (string, error) {
	year := time.Now().Year()
	for attempt := 0; attempt < 5; attempt++ {
		ref := fmt.Sprintf("DIV-%d-%06d", year, rand.Intn(1000000))
		var count int64
		if err := db.Model(&models.Dossier{}).Where("reference = ?", ref).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check reference: %w", err)
		}
		if count == 0 {
			return ref, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique reference")
}

// ResolveLien looks up an active referral link by token and counts the click.
// Returns nil without error when the token is empty or unknown so intake
// never fails on a stale link.
func ResolveLien(db *gorm.DB, token string) *models.Lien {
	if token == "" {
		return nil
	}
	var lien models.Lien
	if err := db.Where("token = ?", token).First(&lien).Error; err != nil {
		log.Printf("Unknown referral token %q ignored", token)
		return nil
	}
	if lien.EstExpire() {
		log.Printf("Expired referral token %q ignored", token)
		return nil
	}
	if err := db.Model(&lien).UpdateColumn("clics", gorm.Expr("clics + 1")).Error; err != nil {
		log.Printf("Failed to count click on lien %s: %v", lien.ID, err)
	}
	return &lien
}

// DefaultAvocat returns the lawyer dossiers fall back to when no referral
// link is supplied: the oldest active account.
func DefaultAvocat(db *gorm.DB) (*models.Avocat, error) {
	var avocat models.Avocat
	err := db.Where("actif = ?", true).Order("created_at ASC").First(&avocat).Error
	if err != nil {
		return nil, fmt.Errorf("no active lawyer account available: %w", err)
	}
	return &avocat, nil
}

// CreateDossier assembles a new case file: amount fixed by jurisdiction,
// status EN_ATTENTE_PAIEMENT, purge deadline fixed at creation time.
func CreateDossier(db *gorm.DB, client *models.Client, input DossierInput, retentionDays int) (*models.Dossier, error) {
	reference, err := GenerateReference(db)
	if err != nil {
		return nil, err
	}

	lien := ResolveLien(db, input.LienToken)

	var avocatID string
	var lienID *string
	if lien != nil {
		avocatID = lien.AvocatID
		lienID = &lien.ID
	} else {
		avocat, err := DefaultAvocat(db)
		if err != nil {
			return nil, err
		}
		avocatID = avocat.ID
	}

	montant, devise := MontantPourPays(input.Pays)

	dossier := &models.Dossier{
		Reference:       reference,
		Pays:            input.Pays,
		TypeProcedure:   input.TypeProcedure,
		DateMariage:     input.DateMariage,
		NombreEnfants:   input.NombreEnfants,
		MontantCents:    montant,
		Devise:          devise,
		Statut:          models.StatutEnAttentePaiement,
		DatePurgePrevue: time.Now().Add(time.Duration(retentionDays) * 24 * time.Hour),
		AvocatID:        avocatID,
		ClientID:        client.ID,
		LienID:          lienID,
	}

	if err := db.Create(dossier).Error; err != nil {
		return nil, fmt.Errorf("failed to create dossier: %w", err)
	}
	return dossier, nil
}
