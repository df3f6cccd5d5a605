package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Avocat represents a lawyer account that owns dossiers and referral links
type Avocat struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Nom      string `gorm:"not null" json:"nom"`
	Prenom   string `gorm:"not null" json:"prenom"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Barreau  string `json:"barreau,omitempty"` // Bar association, e.g. "Barreau de Paris"

	Actif               bool       `gorm:"not null;default:true" json:"actif"`
	DerniereConnexionAt *time.Time `json:"derniere_connexion_at,omitempty"`

	// Relationships
	Dossiers []Dossier `gorm:"foreignKey:AvocatID" json:"dossiers,omitempty"`
	Liens    []Lien    `gorm:"foreignKey:AvocatID" json:"liens,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *Avocat) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// NomComplet returns the display name of the lawyer
func (a *Avocat) NomComplet() string {
	return a.Prenom + " " + a.Nom
}

// TableName specifies the table name for Avocat model
func (Avocat) TableName() string {
	return "avocats"
}
