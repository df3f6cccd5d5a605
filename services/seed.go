package services

import (
	"fmt"
	"log"

	"divorce_intake_go/models"

	"gorm.io/gorm"
)

// textesLoiSeed holds the static legal reference rows, keyed by
// (pays, code, article) in the table
var textesLoiSeed = []models.TexteLoi{
	{
		Pays: models.PaysFrance, Code: "Code civil", Article: "229",
		Intitule: "Cas de divorce",
		Contenu: "Le divorce peut etre prononce en cas soit de consentement mutuel, soit " +
			"d'acceptation du principe de la rupture du mariage, soit d'alteration definitive " +
			"du lien conjugal, soit de faute.",
	},
	{
		Pays: models.PaysFrance, Code: "Code civil", Article: "230",
		Intitule: "Divorce par consentement mutuel judiciaire",
		Contenu: "Le divorce peut etre demande conjointement par les epoux lorsqu'ils s'entendent " +
			"sur la rupture du mariage et ses effets en soumettant a l'approbation du juge une " +
			"convention reglant les consequences du divorce.",
	},
	{
		Pays: models.PaysFrance, Code: "Code civil", Article: "272",
		Intitule: "Prestation compensatoire — ressources",
		Contenu: "Dans le cadre de la fixation d'une prestation compensatoire, par le juge ou par " +
			"les parties, ou a l'occasion d'une demande de revision, les parties fournissent au juge " +
			"une declaration certifiant sur l'honneur l'exactitude de leurs ressources, revenus, " +
			"patrimoine et conditions de vie.",
	},
	{
		Pays: models.PaysFrance, Code: "Code civil", Article: "373-2-11",
		Intitule: "Exercice de l'autorite parentale",
		Contenu: "Lorsqu'il se prononce sur les modalites d'exercice de l'autorite parentale, le juge " +
			"prend notamment en consideration la pratique que les parents avaient precedemment suivie " +
			"ou les accords qu'ils avaient pu anterieurement conclure.",
	},
	{
		Pays: models.PaysFrance, Code: "Code de procedure civile", Article: "1070",
		Intitule: "Juge aux affaires familiales territorialement competent",
		Contenu: "Le juge aux affaires familiales territorialement competent est le juge du lieu ou " +
			"se trouve la residence de la famille.",
	},
	{
		Pays: models.PaysBelgique, Code: "Code civil belge", Article: "229",
		Intitule: "Desunion irremediable",
		Contenu: "Le divorce est prononce lorsque le juge constate la desunion irremediable entre " +
			"les epoux. La desunion est irremediable lorsqu'elle rend raisonnablement impossible la " +
			"poursuite de la vie commune et la reprise de celle-ci entre eux.",
	},
	{
		Pays: models.PaysBelgique, Code: "Code judiciaire", Article: "1254",
		Intitule: "Demande en divorce — pieces",
		Contenu: "La demande contient notamment l'identite des parties ainsi que, le cas echeant, " +
			"l'identite des enfants communs. Un extrait d'acte de mariage et un extrait d'acte de " +
			"naissance des enfants sont joints a la demande.",
	},
	{
		Pays: models.PaysSuisse, Code: "Code civil suisse", Article: "111",
		Intitule: "Divorce sur requete commune — accord complet",
		Contenu: "Lorsque les epoux demandent le divorce par une requete commune et produisent une " +
			"convention complete sur les effets de leur divorce, accompagnee des documents necessaires " +
			"et de leurs conclusions communes relatives aux enfants, le juge les entend separement et ensemble.",
	},
	{
		Pays: models.PaysSuisse, Code: "Code civil suisse", Article: "114",
		Intitule: "Divorce sur demande unilaterale — suspension de la vie commune",
		Contenu: "Un epoux peut demander le divorce lorsque, au debut de la litispendance ou au jour " +
			"du remplacement de la requete par une demande unilaterale, les conjoints ont vecu separes " +
			"pendant deux ans au moins.",
	},
	{
		Pays: models.PaysSuisse, Code: "Code civil suisse", Article: "125",
		Intitule: "Entretien apres le divorce",
		Contenu: "Si l'on ne peut raisonnablement attendre d'un epoux qu'il pourvoie lui-meme a son " +
			"entretien convenable, y compris a la constitution d'une prevoyance vieillesse appropriee, " +
			"son conjoint lui doit une contribution equitable.",
	},
	{
		Pays: models.PaysLuxembourg, Code: "Code civil luxembourgeois", Article: "229",
		Intitule: "Causes du divorce",
		Contenu: "Le divorce peut etre prononce soit par consentement mutuel des epoux, soit pour " +
			"rupture irremediable des relations conjugales.",
	},
	{
		Pays: models.PaysLuxembourg, Code: "Nouveau code de procedure civile", Article: "1007-3",
		Intitule: "Requete en divorce — mentions et pieces",
		Contenu: "La requete contient l'identite des epoux et des enfants communs. Sont joints a la " +
			"requete les actes de l'etat civil etablissant le mariage ainsi que la naissance des enfants.",
	},
}

// SeedTextesLoi upserts the static legal reference table. Safe to run at
// every boot; existing rows are left untouched.
func SeedTextesLoi(db *gorm.DB) error {
	created := 0
	for _, texte := range textesLoiSeed {
		var existing models.TexteLoi
		err := db.Where("pays = ? AND code = ? AND article = ?", texte.Pays, texte.Code, texte.Article).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&texte).Error; err != nil {
				return fmt.Errorf("failed to seed texte %s %s: %w", texte.Code, texte.Article, err)
			}
			created++
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check texte %s %s: %w", texte.Code, texte.Article, err)
		}
	}
	if created > 0 {
		log.Printf("Seeded %d legal texts", created)
	}
	return nil
}

// SeedAvocat creates a lawyer account if the email is not taken. Used by the
// create-avocat CLI and by tests.
func SeedAvocat(db *gorm.DB, nom, prenom, email, password, barreau string) (*models.Avocat, error) {
	var existing models.Avocat
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check lawyer account: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	avocat := &models.Avocat{
		Nom:      nom,
		Prenom:   prenom,
		Email:    email,
		Password: hash,
		Barreau:  barreau,
		Actif:    true,
	}
	if err := db.Create(avocat).Error; err != nil {
		return nil, fmt.Errorf("failed to create lawyer account: %w", err)
	}
	log.Printf("Created lawyer account %s", email)
	return avocat, nil
}
