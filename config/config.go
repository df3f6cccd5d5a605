package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// MinSessionSecretLength is the minimum required length for session secret in production
	MinSessionSecretLength = 32
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	AppURL      string
	// Retention window for dossiers and documents, in days
	RetentionDays int
	// Session
	SessionSecret string
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
	// Gemini (OCR + synthesis)
	GeminiAPIKey      string
	GeminiModel       string
	GeminiVisionModel string
	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	// Cron endpoint bearer token
	CronSecret string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	sessionSecret := getEnv("SESSION_SECRET", "")

	// Validate session secret - this will fatal in production if invalid
	ValidateSessionSecret(sessionSecret, environment)

	// In development, generate a secure secret if none provided
	if sessionSecret == "" && environment != "production" {
		sessionSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary session secret for development. Set SESSION_SECRET env var for persistence.")
	}

	if environment == "production" && getEnv("CRON_SECRET", "") == "" {
		log.Fatal("[CRITICAL] CRON_SECRET must be set in production to protect the purge endpoint")
	}

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		DBPath:              getEnv("DB_PATH", "db/app.db"),
		Environment:         environment,
		UploadDir:           getEnv("UPLOAD_DIR", "static/uploads"),
		AppURL:              getEnv("APP_URL", "http://localhost:8080"),
		RetentionDays:       getEnvInt("RETENTION_DAYS", 7),
		SessionSecret:       sessionSecret,
		R2AccountID:         getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:       getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:   getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:        getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:         getEnv("R2_PUBLIC_URL", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiVisionModel:   getEnv("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		CronSecret:          getEnv("CRON_SECRET", ""),
		ResendAPIKey:        getEnv("RESEND_API_KEY", ""),
		EmailFrom:           getEnv("EMAIL_FROM", "noreply@divorce-clair.fr"),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Divorce Clair"),
		EmailTestMode:       getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// ValidateSessionSecret validates the session secret meets security requirements
// In production, it must be at least 32 bytes and not a known insecure default
func ValidateSessionSecret(secret string, environment string) error {
	// Known insecure defaults that must be rejected
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] SESSION_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			return nil
		}
	}

	if environment == "production" {
		if len(secret) < MinSessionSecretLength {
			log.Fatalf("[CRITICAL] SESSION_SECRET must be at least %d characters in production (current: %d). Generate with: openssl rand -base64 32", MinSessionSecretLength, len(secret))
		}
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
