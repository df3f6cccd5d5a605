package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TexteLoi is a static reference row of legal text, uniquely keyed by
// (pays, code, article). Seed-loaded, read-only at runtime.
type TexteLoi struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Pays     string `gorm:"size:2;not null;uniqueIndex:idx_pays_code_article" json:"pays"`
	Code     string `gorm:"not null;uniqueIndex:idx_pays_code_article" json:"code"` // e.g. "Code civil"
	Article  string `gorm:"not null;uniqueIndex:idx_pays_code_article" json:"article"`
	Intitule string `json:"intitule,omitempty"`
	Contenu  string `gorm:"type:text;not null" json:"contenu"`
}

// BeforeCreate hook to generate UUID
func (t *TexteLoi) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for TexteLoi model
func (TexteLoi) TableName() string {
	return "textes_loi"
}

// Citation returns the canonical citation string, e.g. "Code civil art. 229"
func (t *TexteLoi) Citation() string {
	return t.Code + " art. " + t.Article
}
