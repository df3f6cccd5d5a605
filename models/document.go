package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document type constants, matched against OCR prompt templates and the
// legal requirement table
const (
	TypeActeMariage          = "ACTE_MARIAGE"
	TypePieceIdentite        = "PIECE_IDENTITE"
	TypeJustificatifDomicile = "JUSTIFICATIF_DOMICILE"
	TypeBulletinSalaire      = "BULLETIN_SALAIRE"
	TypeAvisImposition       = "AVIS_IMPOSITION"
	TypeActeNaissanceEnfant  = "ACTE_NAISSANCE_ENFANT"
	TypeAutre                = "AUTRE"
)

// OCR quality labels
const (
	QualiteBonne     = "BONNE"
	QualiteMoyenne   = "MOYENNE"
	QualiteFaible    = "FAIBLE"
	QualiteIllisible = "ILLISIBLE"
)

// Document represents an uploaded piece attached to a dossier, together with
// its OCR extraction and legal verification results
type Document struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	DossierID string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_dossier_chemin" json:"dossier_id"`
	Dossier   Dossier `gorm:"foreignKey:DossierID" json:"dossier,omitempty"`

	TypeDocument string `gorm:"not null;default:AUTRE" json:"type_document"`

	// Storage
	CheminStockage string `gorm:"not null;uniqueIndex:idx_dossier_chemin" json:"-"` // object key, not exposed
	NomOriginal    string `gorm:"not null" json:"nom_original"`
	Taille         int64  `gorm:"not null" json:"taille"`
	MimeType       string `json:"mime_type,omitempty"`

	// OCR extraction
	TexteExtrait   string         `gorm:"type:text" json:"texte_extrait,omitempty"`
	ChampsExtraits datatypes.JSON `json:"champs_extraits,omitempty"`
	Qualite        string         `json:"qualite,omitempty"`
	Confiance      float64        `json:"confiance"`

	// Legal verification
	ExigeParLaLoi bool           `gorm:"not null;default:false" json:"exige_par_la_loi"`
	Valide        bool           `gorm:"not null;default:false" json:"valide"`
	Alertes       datatypes.JSON `json:"alertes,omitempty"`

	// Retention. Fixed at creation time, never recalculated.
	DatePurgePrevue time.Time `gorm:"not null;index" json:"date_purge_prevue"`
	Purge           bool      `gorm:"not null;default:false" json:"purge"`
}

// BeforeCreate hook to generate UUID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}

// IsValidTypeDocument checks if the document type is one of the known types
func IsValidTypeDocument(t string) bool {
	switch t {
	case TypeActeMariage, TypePieceIdentite, TypeJustificatifDomicile,
		TypeBulletinSalaire, TypeAvisImposition, TypeActeNaissanceEnfant, TypeAutre:
		return true
	}
	return false
}
