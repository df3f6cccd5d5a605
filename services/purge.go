package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"divorce_intake_go/models"

	"gorm.io/gorm"
)

// PurgeReport summarizes one run of the retention job
type PurgeReport struct {
	DossiersPurges  int `json:"dossiers_purges"`
	DocumentsPurges int `json:"documents_purges"`
	ErreursStockage int `json:"erreurs_stockage"`
}

// PurgeExpiredDossiers deletes the stored objects of every dossier past its
// retention deadline, then flags the dossier purged and clears its AI fields.
// A storage deletion failure is logged and skipped; it does not prevent the
// dossier from being flagged.
func PurgeExpiredDossiers(ctx context.Context, db *gorm.DB) (*PurgeReport, error) {
	report := &PurgeReport{}

	var dossiers []models.Dossier
	err := db.Where("date_purge_prevue < ? AND purge = ?", time.Now(), false).Find(&dossiers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expired dossiers: %w", err)
	}

	for i := range dossiers {
		dossier := &dossiers[i]

		var documents []models.Document
		if err := db.Where("dossier_id = ? AND purge = ?", dossier.ID, false).Find(&documents).Error; err != nil {
			log.Printf("Purge: failed to load documents for dossier %s: %v", dossier.Reference, err)
			continue
		}

		for j := range documents {
			doc := &documents[j]
			if Storage != nil {
				if err := Storage.Delete(ctx, doc.CheminStockage); err != nil {
					log.Printf("Purge: failed to delete object %s: %v", doc.CheminStockage, err)
					report.ErreursStockage++
				}
			}
			updates := map[string]interface{}{
				"purge":           true,
				"texte_extrait":   "",
				"champs_extraits": nil,
			}
			if err := db.Model(doc).Updates(updates).Error; err != nil {
				log.Printf("Purge: failed to flag document %s: %v", doc.ID, err)
				continue
			}
			report.DocumentsPurges++
		}

		if err := PurgeAnalyse(db, dossier); err != nil {
			log.Printf("Purge: failed to flag dossier %s: %v", dossier.Reference, err)
			continue
		}
		report.DossiersPurges++
	}

	if report.DossiersPurges > 0 {
		log.Printf("Purge run: %d dossiers, %d documents, %d storage errors",
			report.DossiersPurges, report.DocumentsPurges, report.ErreursStockage)
	}
	return report, nil
}
