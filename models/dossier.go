package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dossier status constants. Statuses advance along this sequence:
// EN_ATTENTE_PAIEMENT -> PAYE -> EN_ANALYSE -> ANALYSE_TERMINEE -> VALIDE -> PURGE
// No handler enforces the ordering; writes are unconditional (see DESIGN.md).
const (
	StatutEnAttentePaiement = "EN_ATTENTE_PAIEMENT"
	StatutPaye              = "PAYE"
	StatutEnAnalyse         = "EN_ANALYSE"
	StatutAnalyseTerminee   = "ANALYSE_TERMINEE"
	StatutValide            = "VALIDE"
	StatutPurge             = "PURGE"
)

// Procedure types
const (
	ProcedureConsentementMutuel = "CONSENTEMENT_MUTUEL"
	ProcedureFauteOuAlteration  = "CONTENTIEUX"
	ProcedureSeparationCorps    = "SEPARATION_DE_CORPS"
)

// Dossier represents one client's divorce case file
type Dossier struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reference     string `gorm:"not null;uniqueIndex" json:"reference"` // DIV-YYYY-NNNNNN
	Pays          string `gorm:"size:2;not null;index" json:"pays"`
	TypeProcedure string `gorm:"not null" json:"type_procedure"`

	DateMariage    *time.Time `json:"date_mariage,omitempty"`
	NombreEnfants  int        `gorm:"not null;default:0" json:"nombre_enfants"`
	MontantCents   int64      `gorm:"not null" json:"montant_cents"` // fixed per jurisdiction at creation
	Devise         string     `gorm:"size:3;not null;default:EUR" json:"devise"`

	// Payment
	Paye                  bool       `gorm:"not null;default:false" json:"paye"`
	DatePaiement          *time.Time `json:"date_paiement,omitempty"`
	StripePaymentIntentID *string    `gorm:"index" json:"stripe_payment_intent_id,omitempty"`

	// AI analysis output
	AnalyseIA         datatypes.JSON `json:"analyse_ia,omitempty"`
	SyntheseHTML      string         `gorm:"type:text" json:"synthese_html,omitempty"`
	SourcesJuridiques datatypes.JSON `json:"sources_juridiques,omitempty"`

	Statut string `gorm:"not null;default:EN_ATTENTE_PAIEMENT;index" json:"statut"`

	// Lawyer review
	ValideAt *time.Time `json:"valide_at,omitempty"`

	// Retention. Fixed at creation time, never recalculated.
	DatePurgePrevue time.Time  `gorm:"not null;index" json:"date_purge_prevue"`
	Purge           bool       `gorm:"not null;default:false;index" json:"purge"`
	PurgeAt         *time.Time `json:"purge_at,omitempty"`

	// Relationships
	AvocatID string  `gorm:"type:uuid;not null;index" json:"avocat_id"`
	Avocat   Avocat  `gorm:"foreignKey:AvocatID" json:"avocat,omitempty"`
	ClientID string  `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	LienID   *string `gorm:"type:uuid;index" json:"lien_id,omitempty"`
	Lien     *Lien   `gorm:"foreignKey:LienID" json:"lien,omitempty"`

	Documents []Document `gorm:"foreignKey:DossierID" json:"documents,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *Dossier) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Dossier model
func (Dossier) TableName() string {
	return "dossiers"
}

// EstPaye checks if the dossier has been paid
func (d *Dossier) EstPaye() bool {
	return d.Paye
}

// AnalyseDisponible checks if a synthesis has been produced
func (d *Dossier) AnalyseDisponible() bool {
	return d.SyntheseHTML != ""
}

// IsValidStatut checks if the status value is one of the known states
func IsValidStatut(statut string) bool {
	switch statut {
	case StatutEnAttentePaiement, StatutPaye, StatutEnAnalyse,
		StatutAnalyseTerminee, StatutValide, StatutPurge:
		return true
	}
	return false
}

// IsValidTypeProcedure checks if the procedure type is supported
func IsValidTypeProcedure(t string) bool {
	switch t {
	case ProcedureConsentementMutuel, ProcedureFauteOuAlteration, ProcedureSeparationCorps:
		return true
	}
	return false
}
