package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"

	"divorce_intake_go/db"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

// StripeWebhookHandler processes payment events from Stripe. The signature
// header is verified against the configured secret; a bad signature or an
// unparseable payload is a 400. Unrecognized event types are acknowledged
// without side effects. On a successful payment the dossier is marked paid
// and the analysis is triggered fire-and-forget.
func StripeWebhookHandler(c echo.Context) error {
	cfg := getConfig(c)

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read payload")
	}

	sigHeader := c.Request().Header.Get("Stripe-Signature")
	if sigHeader == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Stripe signature missing")
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, cfg.StripeWebhookSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid signature")
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Malformed event payload")
		}

		dossier, err := services.AppliquerPaiementReussi(db.DB, intent.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to apply payment")
		}

		if dossier != nil {
			if err := services.SendEmailPaiementRecu(cfg, dossier); err != nil {
				log.Printf("Failed to send payment email for %s: %v", dossier.Reference, err)
			}

			// Fire-and-forget analysis trigger, completion is not tracked
			triggerURL := cfg.AppURL + "/api/analyse/dossier"
			dossierID := dossier.ID
			go func() {
				resp, err := http.PostForm(triggerURL, url.Values{"dossier_id": {dossierID}})
				if err != nil {
					log.Printf("Analysis trigger failed for dossier %s: %v", dossierID, err)
					return
				}
				resp.Body.Close()
				if resp.StatusCode >= 400 {
					log.Printf("Analysis trigger returned %d for dossier %s", resp.StatusCode, dossierID)
				}
			}()
		}

	default:
		log.Printf("Ignoring stripe event type %s", event.Type)
	}

	return c.JSON(http.StatusOK, map[string]string{"received": "true"})
}
