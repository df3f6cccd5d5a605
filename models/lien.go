package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lien is a shareable referral link resolving to a lawyer. A dossier created
// through a link is attached to the owning lawyer.
type Lien struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Token    string  `gorm:"not null;uniqueIndex" json:"token"`
	AvocatID string  `gorm:"type:uuid;not null;index" json:"avocat_id"`
	Avocat   Avocat  `gorm:"foreignKey:AvocatID" json:"avocat,omitempty"`
	Libelle  string  `json:"libelle,omitempty"`
	Domaine  *string `json:"domaine,omitempty"` // optional practice domain

	Clics    int        `gorm:"not null;default:0" json:"clics"`
	ExpireLe *time.Time `json:"expire_le,omitempty"`
	Actif    bool       `gorm:"not null;default:true" json:"actif"`
}

// BeforeCreate hook to generate UUID and token
func (l *Lien) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Token == "" {
		l.Token = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Lien model
func (Lien) TableName() string {
	return "liens"
}

// EstExpire checks whether the link can no longer be resolved
func (l *Lien) EstExpire() bool {
	if !l.Actif {
		return true
	}
	return l.ExpireLe != nil && l.ExpireLe.Before(time.Now())
}
