package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supported jurisdictions
const (
	PaysFrance     = "FR"
	PaysBelgique   = "BE"
	PaysSuisse     = "CH"
	PaysLuxembourg = "LU"
)

// Client represents the person submitting a divorce case file.
// Clients are upserted by email on intake, so one email maps to exactly one record.
type Client struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Nom       string `gorm:"not null" json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Telephone string `json:"telephone,omitempty"`
	Pays      string `gorm:"size:2;not null;default:FR" json:"pays"` // detected jurisdiction

	// Relationships
	Dossiers []Dossier `gorm:"foreignKey:ClientID" json:"dossiers,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Client model
func (Client) TableName() string {
	return "clients"
}

// IsValidPays checks if the country code is a supported jurisdiction
func IsValidPays(pays string) bool {
	switch pays {
	case PaysFrance, PaysBelgique, PaysSuisse, PaysLuxembourg:
		return true
	}
	return false
}
