package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"divorce_intake_go/models"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"
	"gorm.io/gorm"
)

// Fixed procedure amounts per jurisdiction, in cents
var montantsParPays = map[string]struct {
	Cents  int64
	Devise string
}{
	models.PaysFrance:     {Cents: 29900, Devise: "EUR"},
	models.PaysBelgique:   {Cents: 29900, Devise: "EUR"},
	models.PaysLuxembourg: {Cents: 29900, Devise: "EUR"},
	models.PaysSuisse:     {Cents: 34900, Devise: "CHF"},
}

// MontantPourPays returns the fixed amount and currency for a jurisdiction
func MontantPourPays(pays string) (int64, string) {
	m, ok := montantsParPays[pays]
	if !ok {
		m = montantsParPays[models.PaysFrance]
	}
	return m.Cents, m.Devise
}

// PaymentClient exposes the subset of Stripe operations the platform needs,
// so handlers can be tested without the hosted API.
type PaymentClient interface {
	CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// Payments is the global payment client instance
var Payments PaymentClient

type stripePaymentClient struct{}

// InitializePayments configures the Stripe API key and the global client
func InitializePayments(secretKey string) {
	if secretKey == "" {
		log.Println("[WARNING] STRIPE_SECRET_KEY not set, payment creation is disabled")
		return
	}
	stripe.Key = secretKey
	Payments = &stripePaymentClient{}
	log.Println("Stripe client initialized")
}

func (s *stripePaymentClient) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}

// CreerPaiement creates a PaymentIntent for the dossier's fixed amount and
// records the intent id on the dossier. Returns the client secret.
func CreerPaiement(ctx context.Context, db *gorm.DB, dossier *models.Dossier) (string, error) {
	if Payments == nil {
		return "", fmt.Errorf("payment client not configured")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(dossier.MontantCents),
		Currency: stripe.String(dossier.Devise),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("dossier_id", dossier.ID)
	params.AddMetadata("reference", dossier.Reference)

	intent, err := Payments.CreatePaymentIntent(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	if err := db.Model(dossier).Update("stripe_payment_intent_id", intent.ID).Error; err != nil {
		return "", fmt.Errorf("failed to record payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}

// AppliquerPaiementReussi flips the dossier to paid after a successful
// payment_intent event. Looks up by intent id; an unknown intent is a no-op
// so replayed or foreign events do not error.
func AppliquerPaiementReussi(db *gorm.DB, paymentIntentID string) (*models.Dossier, error) {
	var dossier models.Dossier
	err := db.Preload("Client").Where("stripe_payment_intent_id = ?", paymentIntentID).First(&dossier).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("Payment event for unknown intent %s ignored", paymentIntentID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up dossier: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"paye":          true,
		"date_paiement": now,
		"statut":        models.StatutPaye,
	}
	if err := db.Model(&dossier).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to mark dossier paid: %w", err)
	}

	log.Printf("Dossier %s marked paid (intent %s)", dossier.Reference, paymentIntentID)
	return &dossier, nil
}
