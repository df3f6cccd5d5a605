package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	"divorce_intake_go/config"
	"divorce_intake_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
}

var tmplPaiementRecu = template.Must(template.New("paiement_recu").Parse(`
<p>Bonjour {{.Prenom}},</p>
<p>Nous avons bien recu votre paiement pour le dossier <strong>{{.Reference}}</strong>.</p>
<p>L'analyse de vos pieces est en cours. Vous serez informe des qu'elle sera disponible.</p>
<p>Cordialement,<br>L'equipe Divorce Clair</p>
`))

var tmplAnalysePrete = template.Must(template.New("analyse_prete").Parse(`
<p>Bonjour {{.Prenom}},</p>
<p>L'analyse juridique de votre dossier <strong>{{.Reference}}</strong> est terminee.</p>
<p>Votre avocat va maintenant la relire et la valider.</p>
<p>Cordialement,<br>L'equipe Divorce Clair</p>
`))

type emailData struct {
	Prenom    string
	Reference string
}

// SendEmail sends an email via Resend, or logs it when test mode is enabled
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode || cfg.ResendAPIKey == "" {
		log.Printf("[EMAIL TEST MODE] To: %v | Subject: %s", email.To, email.Subject)
		return nil
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
	}

	if _, err := client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func renderEmail(tmpl *template.Template, data emailData) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("Error rendering email template: %v", err)
		return fmt.Sprintf("<p>Bonjour %s, une mise a jour est disponible pour votre dossier %s.</p>",
			data.Prenom, data.Reference)
	}
	return buf.String()
}

// SendEmailPaiementRecu notifies the client their payment was received
func SendEmailPaiementRecu(cfg *config.Config, dossier *models.Dossier) error {
	return SendEmail(cfg, &Email{
		To:      []string{dossier.Client.Email},
		Subject: fmt.Sprintf("Paiement recu — dossier %s", dossier.Reference),
		HTMLBody: renderEmail(tmplPaiementRecu, emailData{
			Prenom:    dossier.Client.Prenom,
			Reference: dossier.Reference,
		}),
	})
}

// SendEmailAnalysePrete notifies the client their analysis is available
func SendEmailAnalysePrete(cfg *config.Config, dossier *models.Dossier) error {
	return SendEmail(cfg, &Email{
		To:      []string{dossier.Client.Email},
		Subject: fmt.Sprintf("Analyse disponible — dossier %s", dossier.Reference),
		HTMLBody: renderEmail(tmplAnalysePrete, emailData{
			Prenom:    dossier.Client.Prenom,
			Reference: dossier.Reference,
		}),
	})
}
